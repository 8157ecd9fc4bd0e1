package world

import (
	"container/heap"
	"math"

	"mine-and-die/pursuit/internal/movement"
)

type navNeighbor struct {
	col      int
	row      int
	cost     float64
	diagonal bool
}

var navNeighborOffsets = [...]navNeighbor{
	{col: 0, row: -1, cost: 1},
	{col: 1, row: 0, cost: 1},
	{col: 0, row: 1, cost: 1},
	{col: -1, row: 0, cost: 1},
	{col: 1, row: -1, cost: math.Sqrt2, diagonal: true},
	{col: 1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: -1, cost: math.Sqrt2, diagonal: true},
}

type navPoint struct {
	col int
	row int
}

type navGrid struct {
	cols, rows int
	cellSize   float64
	walkable   []bool
	width      float64
	height     float64
}

func newNavGrid(obstacles []Obstacle, width, height, cellSize, clearance float64) *navGrid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	cols := max(int(math.Ceil(width/cellSize)), 1)
	rows := max(int(math.Ceil(height/cellSize)), 1)
	grid := &navGrid{
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		walkable: make([]bool, cols*rows),
		width:    width,
		height:   height,
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			center := grid.worldPos(col, row)
			if center.X > width || center.Y > height {
				continue
			}
			blocked := false
			for _, obs := range obstacles {
				if CircleRectOverlap(center.X, center.Y, clearance, obs) {
					blocked = true
					break
				}
			}
			grid.walkable[grid.index(col, row)] = !blocked
		}
	}

	return grid
}

func (g *navGrid) inBounds(col, row int) bool {
	return g != nil && col >= 0 && row >= 0 && col < g.cols && row < g.rows
}

func (g *navGrid) index(col, row int) int {
	return row*g.cols + col
}

func (g *navGrid) isWalkable(col, row int) bool {
	return g.inBounds(col, row) && g.walkable[g.index(col, row)]
}

func (g *navGrid) worldPos(col, row int) Vec2 {
	return Vec2{
		X: (float64(col) + 0.5) * g.cellSize,
		Y: (float64(row) + 0.5) * g.cellSize,
	}
}

func (g *navGrid) canTraverseDiagonal(current navPoint, delta navNeighbor) bool {
	if !delta.diagonal {
		return true
	}
	return g.isWalkable(current.col+delta.col, current.row) && g.isWalkable(current.col, current.row+delta.row)
}

func (g *navGrid) locate(x, y float64) (int, int, bool) {
	if g == nil || x < 0 || y < 0 || x > g.width || y > g.height {
		return 0, 0, false
	}
	col := min(int(x/g.cellSize), g.cols-1)
	row := min(int(y/g.cellSize), g.rows-1)
	return col, row, g.inBounds(col, row)
}

// closestWalkable breadth-first searches for the nearest open cell.
func (g *navGrid) closestWalkable(col, row int) (int, int, bool) {
	if !g.inBounds(col, row) {
		return 0, 0, false
	}
	visited := map[int]struct{}{g.index(col, row): {}}
	queue := []navPoint{{col: col, row: row}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if g.walkable[g.index(current.col, current.row)] {
			return current.col, current.row, true
		}
		for _, delta := range navNeighborOffsets {
			nc := current.col + delta.col
			nr := current.row + delta.row
			if !g.inBounds(nc, nr) {
				continue
			}
			idx := g.index(nc, nr)
			if _, seen := visited[idx]; seen {
				continue
			}
			visited[idx] = struct{}{}
			queue = append(queue, navPoint{col: nc, row: nr})
		}
	}
	return 0, 0, false
}

func (g *navGrid) heuristic(a, b navPoint) float64 {
	dx := math.Abs(float64(a.col - b.col))
	dy := math.Abs(float64(a.row - b.row))
	if dx > dy {
		return dx + (math.Sqrt2-1)*dy
	}
	return dy + (math.Sqrt2-1)*dx
}

type pathNode struct {
	point  navPoint
	g      float64
	f      float64
	index  int
	parent *pathNode
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	item := x.(*pathNode)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

func (g *navGrid) astar(start, goal navPoint) ([]navPoint, bool) {
	open := &pathQueue{}
	heap.Init(open)
	heap.Push(open, &pathNode{point: start, f: g.heuristic(start, goal)})
	gScore := map[int]float64{g.index(start.col, start.row): 0}
	closed := make(map[int]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		currIdx := g.index(current.point.col, current.point.row)
		if _, seen := closed[currIdx]; seen {
			continue
		}
		closed[currIdx] = struct{}{}
		if current.point == goal {
			return reconstructPath(current), true
		}

		for _, delta := range navNeighborOffsets {
			if !g.canTraverseDiagonal(current.point, delta) {
				continue
			}
			next := navPoint{col: current.point.col + delta.col, row: current.point.row + delta.row}
			if !g.isWalkable(next.col, next.row) {
				continue
			}
			idx := g.index(next.col, next.row)
			if _, seen := closed[idx]; seen {
				continue
			}
			tentativeG := current.g + delta.cost
			if prev, ok := gScore[idx]; ok && tentativeG >= prev {
				continue
			}
			gScore[idx] = tentativeG
			heap.Push(open, &pathNode{
				point:  next,
				g:      tentativeG,
				f:      tentativeG + g.heuristic(next, goal),
				parent: current,
			})
		}
	}
	return nil, false
}

func reconstructPath(end *pathNode) []navPoint {
	path := make([]navPoint, 0)
	for node := end; node != nil; node = node.parent {
		path = append(path, node.point)
	}
	for i := 0; i < len(path)/2; i++ {
		j := len(path) - 1 - i
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// findPath returns the intermediate cell centres followed by target. The
// start position itself is not included.
func (g *navGrid) findPath(start, target Vec2) ([]Vec2, bool) {
	startCol, startRow, ok := g.locate(start.X, start.Y)
	if !ok {
		return nil, false
	}
	goalCol, goalRow, ok := g.locate(target.X, target.Y)
	if !ok || !g.isWalkable(goalCol, goalRow) {
		return nil, false
	}
	if !g.isWalkable(startCol, startRow) {
		if startCol, startRow, ok = g.closestWalkable(startCol, startRow); !ok {
			return nil, false
		}
	}
	nodes, ok := g.astar(navPoint{col: startCol, row: startRow}, navPoint{col: goalCol, row: goalRow})
	if !ok {
		return nil, false
	}
	path := make([]Vec2, 0, len(nodes))
	for i := 1; i < len(nodes)-1; i++ {
		path = append(path, g.worldPos(nodes[i].col, nodes[i].row))
	}
	return append(path, target), true
}

// Navigator is the grid planner bound to one owner. It keeps the last
// successful path until the next successful calculation.
type Navigator struct {
	grid     *navGrid
	owner    movement.Owner
	path     []Vec3
	end      Vec3
	pathType movement.PathType
}

// NewNavigator binds a planner over grid to owner. A nil grid plans straight
// lines.
func NewNavigator(grid *NavigationGrid, owner movement.Owner) *Navigator {
	n := &Navigator{owner: owner}
	if grid != nil {
		n.grid = grid.grid
	}
	return n
}

// Calculate plans from the owner's current position to dest.
func (n *Navigator) Calculate(dest Vec3, forceDirect bool) movement.PathType {
	start := n.owner.Position()
	if forceDirect || n.grid == nil || n.owner.CanFly() {
		n.commit([]Vec3{start, dest}, dest, movement.PathNormal|movement.PathShortcut)
		return n.pathType
	}

	planar, ok := n.grid.findPath(start.Planar(), dest.Planar())
	if !ok {
		n.pathType = movement.PathNoPath
		return n.pathType
	}
	points := make([]Vec3, 0, len(planar)+1)
	points = append(points, start)
	for i, p := range planar {
		z := dest.Z
		if i < len(planar)-1 {
			t := float64(i+1) / float64(len(planar))
			z = start.Z + (dest.Z-start.Z)*t
		}
		points = append(points, Vec3{X: p.X, Y: p.Y, Z: z})
	}
	pathType := movement.PathNormal
	if len(points) == 2 {
		pathType |= movement.PathShortcut
	}
	n.commit(points, dest, pathType)
	return n.pathType
}

func (n *Navigator) commit(points []Vec3, end Vec3, pathType movement.PathType) {
	n.path = points
	n.end = end
	n.pathType = pathType
}

// Path returns the waypoints of the last successful calculation, starting at
// the owner's position at that time.
func (n *Navigator) Path() []Vec3 {
	return n.path
}

// EndPosition returns the destination of the last successful calculation.
func (n *Navigator) EndPosition() Vec3 {
	return n.end
}

// PathType returns the classification of the last calculation.
func (n *Navigator) PathType() movement.PathType {
	return n.pathType
}

// NavigationGrid is the walkability grid shared by every navigator of a
// world.
type NavigationGrid struct {
	grid *navGrid
}

// NewNavigationGrid rasterises obstacles into cells of cellSize, blocking
// cells whose centre lies within clearance of an obstacle.
func NewNavigationGrid(obstacles []Obstacle, width, height, cellSize, clearance float64) *NavigationGrid {
	return &NavigationGrid{grid: newNavGrid(obstacles, width, height, cellSize, clearance)}
}

func (g *NavigationGrid) Cols() int {
	if g == nil || g.grid == nil {
		return 0
	}
	return g.grid.cols
}

func (g *NavigationGrid) Rows() int {
	if g == nil || g.grid == nil {
		return 0
	}
	return g.grid.rows
}

// Walkable reports whether the cell containing p is open.
func (g *NavigationGrid) Walkable(p Vec2) bool {
	if g == nil || g.grid == nil {
		return false
	}
	col, row, ok := g.grid.locate(p.X, p.Y)
	return ok && g.grid.isWalkable(col, row)
}
