// Package scene 把几何引擎的输出物化为可序列化的场景图，并维护
// 与交互控制同步的查看器会话。场景图每次输入变化都整体重建，
// 不做增量更新；分子只有几十个原子，重建的代价可以忽略。
package scene

import (
	"molviz-go/internal/geometry"
	"molviz-go/internal/model"
)

// 渲染常量，与查看器的材质约定一致。
const (
	atomRadius     = 0.5
	bondRadius     = 0.1
	lonePairRadius = 0.15

	bondColor       = 0xcccccc
	lonePairColor   = 0xffff00
	arcColor        = 0x00ffff
	backgroundColor = 0x000000
	ambientColor    = 0x404040
	lightColor      = 0xffffff

	defaultArcRadius = 0.6
)

// NodeKind 标识场景图节点的类型。
type NodeKind string

const (
	NodeSphere           NodeKind = "sphere"
	NodeCylinder         NodeKind = "cylinder"
	NodeDisc             NodeKind = "disc"
	NodeAmbientLight     NodeKind = "ambient_light"
	NodeDirectionalLight NodeKind = "directional_light"
)

// Node 是场景图中的一个可绘制对象。不同类型只使用各自相关的字段。
type Node struct {
	Kind     NodeKind      `json:"kind"`
	Position geometry.Vec3 `json:"position"`
	Rotation geometry.Quat `json:"rotation"`
	Radius   float64       `json:"radius,omitempty"`
	Height   float64       `json:"height,omitempty"`
	Color    int           `json:"color"`
	Arc      *geometry.Arc `json:"arc,omitempty"`
}

// Graph 是一次重建产出的完整场景。
type Graph struct {
	Background int    `json:"background"`
	Nodes      []Node `json:"nodes"`
}

// Options 是影响场景重建的三个查看器输入。
type Options struct {
	// BondLengthFactor 为 0 时按 1.0 处理。
	BondLengthFactor float64
	ShowLonePairs    bool
	ShowBondAngles   bool
	// ArcRadius 为 0 时使用默认半径 0.6。
	ArcRadius float64
}

func (o Options) factor() float64 {
	if o.BondLengthFactor == 0 {
		return 1
	}
	return o.BondLengthFactor
}

func (o Options) arcRadius() float64 {
	if o.ArcRadius == 0 {
		return defaultArcRadius
	}
	return o.ArcRadius
}

// Build 从结构描述构建一个全新的场景图。给定相同的输入，输出逐位
// 相同。结构非法时返回 MalformedStructureError。
func Build(s model.Structure, opts Options) (*Graph, error) {
	placements, err := geometry.ComputeBondPlacement(s, opts.factor())
	if err != nil {
		return nil, err
	}

	g := &Graph{Background: backgroundColor}

	// 每个原子一个球体
	for _, a := range s.Atoms {
		g.Nodes = append(g.Nodes, Node{
			Kind:     NodeSphere,
			Position: geometry.AtomPosition(a),
			Rotation: geometry.IdentityQuat(),
			Radius:   atomRadius,
			Color:    a.Color,
		})
	}

	// 每个键一个圆柱体，置于中点并旋转到键的方向
	for _, p := range placements {
		g.Nodes = append(g.Nodes, Node{
			Kind:     NodeCylinder,
			Position: p.Midpoint,
			Rotation: p.Orientation,
			Radius:   bondRadius,
			Height:   p.Length,
			Color:    bondColor,
		})
	}

	if opts.ShowBondAngles {
		if err := appendAngleDiscs(g, s, opts.arcRadius()); err != nil {
			return nil, err
		}
	}

	if opts.ShowLonePairs {
		for pos := range geometry.LonePairPositions(s) {
			g.Nodes = append(g.Nodes, Node{
				Kind:     NodeSphere,
				Position: pos,
				Rotation: geometry.IdentityQuat(),
				Radius:   lonePairRadius,
				Color:    lonePairColor,
			})
		}
	}

	// 光照与原始查看器一致：弱环境光加一盏定向光
	g.Nodes = append(g.Nodes,
		Node{Kind: NodeAmbientLight, Rotation: geometry.IdentityQuat(), Color: ambientColor},
		Node{Kind: NodeDirectionalLight, Position: geometry.Vec3{X: 10, Y: 10, Z: 10}, Rotation: geometry.IdentityQuat(), Color: lightColor},
	)

	return g, nil
}

// appendAngleDiscs 为每对共享原子的键追加一个键角指示盘。
func appendAngleDiscs(g *Graph, s model.Structure, radius float64) error {
	pairs, err := geometry.SharedBondPairs(s)
	if err != nil {
		return err
	}

	idx := make(map[int]model.Atom, len(s.Atoms))
	for _, a := range s.Atoms {
		idx[a.ID] = a
	}

	for _, p := range pairs {
		origin := geometry.AtomPosition(idx[p.AtomID])
		v1 := bondVector(idx, p.AtomID, p.A)
		v2 := bondVector(idx, p.AtomID, p.B)
		arc := geometry.ComputeAngleArc(p.AtomID, origin, v1, v2, radius)
		g.Nodes = append(g.Nodes, Node{
			Kind:     NodeDisc,
			Position: arc.Center,
			Rotation: geometry.IdentityQuat(),
			Color:    arcColor,
			Arc:      &arc,
		})
	}
	return nil
}

// bondVector 返回从共享原子指向键另一端的向量。调用方保证结构已校验。
func bondVector(idx map[int]model.Atom, commonID int, b model.Bond) geometry.Vec3 {
	otherID := b.AtomIDs[0]
	if otherID == commonID {
		otherID = b.AtomIDs[1]
	}
	return geometry.AtomPosition(idx[otherID]).Sub(geometry.AtomPosition(idx[commonID]))
}
