package topology

import (
	"fmt"
	"strings"
)

// Kind enumerates the closed set of supported master element topologies
type Kind uint8

const (
	Edge2D2 Kind = iota // 2 node edge, boundary of Quad2D4
	Edge2D3             // 3 node edge, boundary of Quad2D9
	Quad2D4
	Quad2D9
	Quad3D4 // 4 node quad face, boundary of Hex8
	Quad3D9 // 9 node quad face, boundary of Hex27
	Hex8
	Hex27
	NumKinds
)

var kindNames = [NumKinds]string{
	"Edge2D2", "Edge2D3", "Quad2D4", "Quad2D9", "Quad3D4", "Quad3D9", "Hex8", "Hex27",
}

func (k Kind) String() string {
	if k >= NumKinds {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

func ParseKind(name string) (k Kind, err error) {
	for i, kn := range kindNames {
		if strings.EqualFold(kn, name) {
			return Kind(i), nil
		}
	}
	err = fmt.Errorf("unknown topology %q, valid topologies are %s", name, strings.Join(kindNames[:], ", "))
	return
}

// Kinds lists every topology in enum order
func Kinds() (kinds []Kind) {
	for k := Kind(0); k < NumKinds; k++ {
		kinds = append(kinds, k)
	}
	return
}

// VolumeKinds lists the topologies whose parametric and spatial dimensions match
func VolumeKinds() []Kind { return []Kind{Quad2D4, Quad2D9, Hex8, Hex27} }

type traits struct {
	spatialDim, parametricDim, order int
	faceKind                         Kind
}

var kindTraits = [NumKinds]traits{
	Edge2D2: {2, 1, 1, NumKinds},
	Edge2D3: {2, 1, 2, NumKinds},
	Quad2D4: {2, 2, 1, Edge2D2},
	Quad2D9: {2, 2, 2, Edge2D3},
	Quad3D4: {3, 2, 1, NumKinds},
	Quad3D9: {3, 2, 2, NumKinds},
	Hex8:    {3, 3, 1, Quad3D4},
	Hex27:   {3, 3, 2, Quad3D9},
}
