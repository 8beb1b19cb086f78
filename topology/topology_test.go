package topology

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	for _, k := range Kinds() {
		kk, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, kk)
	}
	k, err := ParseKind("hex27")
	require.NoError(t, err)
	assert.Equal(t, Hex27, k)
	_, err = ParseKind("Tet4")
	assert.Error(t, err)
	assert.Equal(t, "Kind(200)", Kind(200).String())
	assert.Panics(t, func() { Get(NumKinds) })
}

func TestCounts(t *testing.T) {
	expected := map[Kind][3]int{ // nodes, scv or face ips, scs ips
		Edge2D2: {2, 2, 0},
		Edge2D3: {3, 6, 0},
		Quad2D4: {4, 4, 4},
		Quad2D9: {9, 36, 24},
		Quad3D4: {4, 4, 0},
		Quad3D9: {9, 36, 0},
		Hex8:    {8, 8, 12},
		Hex27:   {27, 216, 216},
	}
	for k, ex := range expected {
		d := Get(k)
		assert.Equalf(t, ex[0], d.NodesPerElement, "%v nodes", k)
		assert.Equalf(t, ex[1], d.NumScvIp(), "%v ips", k)
		assert.Equalf(t, ex[2], d.NumScsIp(), "%v scs ips", k)
		assert.Equal(t, 2*d.NumScsIp(), len(d.Lrscv))
		assert.Same(t, d, Get(k))
	}
	assert.Equal(t, 36, Get(Hex27).IpsPerFace())
	assert.Equal(t, 0, Get(Quad3D9).IpsPerFace())
}

func TestSides(t *testing.T) {
	for _, k := range VolumeKinds() {
		d := Get(k)
		t.Run(k.String(), func(t *testing.T) {
			fd := Get(d.FaceKind)
			pd := d.ParametricDim
			require.Equal(t, 2*pd, d.NumSides())
			for side, nodes := range d.Sides {
				require.Equal(t, fd.NodesPerElement, len(nodes))
				axis, sign := d.FaceAxis[side], float64(d.FaceSign[side])
				for _, n := range nodes {
					require.True(t, n >= 0 && n < d.NodesPerElement)
					assert.Equalf(t, sign, d.RefLocations[n*pd+axis], "side %d node %d", side, n)
				}
				// Corner order gives the outward normal
				loc := func(n int) (x [3]float64) {
					copy(x[:], d.RefLocations[n*pd:(n+1)*pd])
					return
				}
				x0, x1 := loc(nodes[0]), loc(nodes[1])
				var normal [3]float64
				if pd == 2 {
					normal = [3]float64{x1[1] - x0[1], -(x1[0] - x0[0])}
				} else {
					x3 := loc(nodes[3])
					a := [3]float64{x1[0] - x0[0], x1[1] - x0[1], x1[2] - x0[2]}
					b := [3]float64{x3[0] - x0[0], x3[1] - x0[1], x3[2] - x0[2]}
					normal = [3]float64{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
				}
				assert.Greaterf(t, normal[axis]*sign, 0., "side %d points inward", side)
				// Face nodes sit where the face's own tensor map puts them,
				// interpolated linearly from the side's corners
				for ord := 0; ord < fd.NodesPerElement; ord++ {
					var (
						ft      = fd.Map.Tensor(ord)
						s       = fd.Rule.NodeLocations[ft[0]]
						weights []float64
					)
					if fd.ParametricDim == 1 {
						weights = []float64{0.5 * (1 - s), 0.5 * (1 + s)}
					} else {
						tt := fd.Rule.NodeLocations[ft[1]]
						weights = []float64{
							0.25 * (1 - s) * (1 - tt), 0.25 * (1 + s) * (1 - tt),
							0.25 * (1 + s) * (1 + tt), 0.25 * (1 - s) * (1 + tt),
						}
					}
					for dir := 0; dir < pd; dir++ {
						var x float64
						for c, w := range weights {
							x += w * d.RefLocations[nodes[c]*pd+dir]
						}
						assert.InDeltaf(t, d.RefLocations[nodes[ord]*pd+dir], x, 1.e-14, "side %d face node %d", side, ord)
					}
				}
			}
		})
	}
}

func TestInteriorMaps(t *testing.T) {
	for _, k := range VolumeKinds() {
		d := Get(k)
		t.Run(k.String(), func(t *testing.T) {
			var (
				pd    = d.ParametricDim
				p     = d.Order
				q     = d.Rule.NumQuad
				count = make([]int, d.NodesPerElement)
			)
			for i, ip := range d.Scs {
				assert.Equal(t, ip.Left, d.Lrscv[2*i])
				assert.Equal(t, ip.Right, d.Lrscv[2*i+1])
				tl, tr := d.Map.Tensor(ip.Left), d.Map.Tensor(ip.Right)
				for dir := 0; dir < 3; dir++ {
					if dir == ip.Direction {
						assert.Equal(t, tl[dir]+1, tr[dir])
					} else {
						assert.Equal(t, tl[dir], tr[dir])
					}
				}
				if i > 0 {
					// Grouped by direction
					assert.GreaterOrEqual(t, ip.Direction, d.Scs[i-1].Direction)
				}
				count[ip.Left]++
				count[ip.Right]++
			}
			// Each node is straddled by q^(pd-1) points per neighboring surface
			qt := 1
			for i := 0; i < pd-1; i++ {
				qt *= q
			}
			for n := 0; n < d.NodesPerElement; n++ {
				tn := d.Map.Tensor(n)
				expected := 0
				for dir := 0; dir < pd; dir++ {
					if tn[dir] > 0 {
						expected += qt
					}
					if tn[dir] < p {
						expected += qt
					}
				}
				assert.Equalf(t, expected, count[n], "node %d", n)
			}
			// Every node owns q^pd sub-control volume points
			owned := make([]int, d.NodesPerElement)
			for _, ip := range d.Ips {
				owned[ip.Node]++
			}
			for n := range owned {
				assert.Equal(t, d.NumScvIp()/d.NodesPerElement, owned[n])
			}
		})
	}
}

func TestBoundaryMaps(t *testing.T) {
	for _, k := range VolumeKinds() {
		d := Get(k)
		t.Run(k.String(), func(t *testing.T) {
			fd := Get(d.FaceKind)
			for side := range d.Sides {
				inSide := make(map[int]bool)
				for _, n := range d.Sides[side] {
					inSide[n] = true
				}
				require.Equal(t, fd.NumScvIp(), len(d.FaceIps[side]))
				for fip, ip := range d.FaceIps[side] {
					assert.Truef(t, inSide[ip.Node], "side %d face ip %d node %d", side, fip, ip.Node)
					opp := d.OppNode[side][fip]
					assert.Falsef(t, inSide[opp], "side %d opposing node %d lies on the side", side, opp)
					scs := d.Scs[d.OppFace[side][fip]]
					assert.Equal(t, d.FaceAxis[side], scs.Direction)
					if d.FaceSign[side] < 0 {
						assert.Equal(t, ip.Node, scs.Left)
						assert.Equal(t, opp, scs.Right)
					} else {
						assert.Equal(t, ip.Node, scs.Right)
						assert.Equal(t, opp, scs.Left)
					}
				}
			}
		})
	}
}

func ExampleGet() {
	d := Get(Quad2D9)
	fmt.Println(d.NodesPerElement, d.NumScvIp(), d.NumScsIp(), d.Sides[0])
	// Output: 9 36 24 [0 1 4]
}
