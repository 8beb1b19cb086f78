package utils

const (
	NODETOL = 1.e-12
	// UnityTol bounds the partition of unity defect of a shape function table
	UnityTol = 1.e-12
	// JacobianTol is the positivity threshold of a Jacobian determinant,
	// relative to the element's length scale raised to its dimension
	JacobianTol = 1.e-10
	// InvMapTol and InvMapNit control the Newton inverse mapping
	InvMapTol = 1.e-10
	InvMapNit = 25
	// FaceThicknessTol is the off-surface distance, relative to the element
	// size, beyond which a point does not lie on a face element
	FaceThicknessTol = 0.01
)
