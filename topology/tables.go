package topology

// Side node ordinals follow the exodus convention: counterclockwise when
// viewed from outside the element, corners first.
var (
	quad4Sides = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	quad9Sides = [][]int{{0, 1, 4}, {1, 2, 5}, {2, 3, 6}, {3, 0, 7}}
	hex8Sides  = [][]int{
		{0, 1, 5, 4},
		{1, 2, 6, 5},
		{2, 3, 7, 6},
		{0, 4, 7, 3},
		{0, 3, 2, 1},
		{4, 5, 6, 7},
	}
	hex27Sides = [][]int{
		{0, 1, 5, 4, 8, 13, 16, 12, 25},
		{1, 2, 6, 5, 9, 14, 17, 13, 24},
		{2, 3, 7, 6, 10, 15, 18, 14, 26},
		{0, 4, 7, 3, 12, 19, 15, 11, 23},
		{0, 3, 2, 1, 11, 10, 9, 8, 21},
		{4, 5, 6, 7, 16, 17, 18, 19, 22},
	}
	// parametric axis normal to each side and the sign of its outward normal
	quadFaceAxis = []int{1, 0, 1, 0}
	quadFaceSign = []int{-1, 1, 1, -1}
	hexFaceAxis  = []int{1, 0, 1, 0, 2, 2}
	hexFaceSign  = []int{-1, 1, 1, -1, -1, 1}
)
