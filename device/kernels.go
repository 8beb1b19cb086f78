package device

// The team first stages the element coordinates in shared memory, then each
// inner iteration evaluates the Jacobian at its integration points.
const jacobianBody = `
    @shared real_t xs[NODES*DIM];
    for (int t = 0; t < TEAM; ++t; @inner(0)) {
      for (int c = t; c < NODES*DIM; c += TEAM) {
        xs[c] = x[e*NODES*DIM + c];
      }
    }
    for (int t = 0; t < TEAM; ++t; @inner(0)) {
      for (int ip = t; ip < NIP; ip += TEAM) {
        real_t J[3][3];
        for (int i = 0; i < 3; ++i) {
          for (int j = 0; j < 3; ++j) {
            J[i][j] = REAL_ZERO;
          }
        }
        for (int n = 0; n < NODES; ++n) {
          for (int i = 0; i < DIM; ++i) {
            const real_t xn = xs[n*DIM + i];
            for (int j = 0; j < PDIM; ++j) {
              J[i][j] += xn*DERIV[ip][n*PDIM + j];
            }
          }
        }
`

const scvVolumesSource = `
@kernel void scvVolumes(const int K, const real_t* x, real_t* vol) {
  for (int e = 0; e < K; ++e; @outer(0)) {` + jacobianBody + `
#if DIM == 2
        const real_t det = J[0][0]*J[1][1] - J[0][1]*J[1][0];
#else
        const real_t det = J[0][0]*(J[1][1]*J[2][2] - J[1][2]*J[2][1])
                         - J[0][1]*(J[1][0]*J[2][2] - J[1][2]*J[2][0])
                         + J[0][2]*(J[1][0]*J[2][1] - J[1][1]*J[2][0]);
#endif
        vol[e*NIP + ip] = det*W[0][ip];
      }
    }
  }
}
`

const areaVectorsSource = `
@kernel void areaVectors(const int K, const real_t* x, real_t* av) {
  for (int e = 0; e < K; ++e; @outer(0)) {` + jacobianBody + `
        const int dir = (int) DIRS[0][ip];
        const real_t w = W[0][ip];
        real_t* out = av + (e*NIP + ip)*DIM;
#if DIM == 2
        const int c = (dir == 0) ? 1 : 0;
        const real_t sgn = (dir == 1) ? -1.0 : 1.0;
        out[0] = sgn*J[1][c]*w;
        out[1] = -sgn*J[0][c]*w;
#else
        int a = 0, b = 1;
        if (dir == 0) {
          a = 1; b = 2;
        } else if (dir == 1) {
          a = 2; b = 0;
        }
        out[0] = (J[1][a]*J[2][b] - J[2][a]*J[1][b])*w;
        out[1] = (J[2][a]*J[0][b] - J[0][a]*J[2][b])*w;
        out[2] = (J[0][a]*J[1][b] - J[1][a]*J[0][b])*w;
#endif
      }
    }
  }
}
`
