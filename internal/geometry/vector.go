// Package geometry 实现了分子查看器所需的纯几何计算：
// 化学键的摆放、键角、键角指示盘以及孤对电子位置。
// 包内所有函数都是确定性的纯函数，不依赖可变的全局状态。
package geometry

import "math"

// Vec3 是一个三维向量。
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// 标准基向量。
var (
	AxisX = Vec3{X: 1}
	AxisY = Vec3{Y: 1}
	AxisZ = Vec3{Z: 1}
)

// Add 返回 v + w。
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub 返回 v - w。
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}
}

// Scale 返回 v 的标量倍。
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot 返回点积。
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross 返回叉积 v × w。
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length 返回向量长度。
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize 返回同方向的单位向量；零向量返回零向量。
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// DistanceTo 返回两点间的欧氏距离。
func (v Vec3) DistanceTo(w Vec3) float64 {
	return v.Sub(w).Length()
}

// Quat 是一个单位四元数，表示一次三维旋转。
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// IdentityQuat 返回单位旋转。
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// Normalize 返回归一化后的四元数；零四元数归一化为单位旋转。
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return IdentityQuat()
	}
	return Quat{X: q.X / l, Y: q.Y / l, Z: q.Z / l, W: q.W / l}
}

// QuatFromUnitVectors 返回把单位向量 from 旋转到单位向量 to 的最短旋转。
// from 与 to 反向平行时，绕一条与 from 正交的固定轴旋转 180°，
// 保证结果对相同输入始终相同。
func QuatFromUnitVectors(from, to Vec3) Quat {
	const eps = 1e-8

	r := from.Dot(to) + 1
	if r < eps {
		// 反向：选一条与 from 正交的轴
		if math.Abs(from.X) > math.Abs(from.Z) {
			return Quat{X: -from.Y, Y: from.X, Z: 0, W: 0}.Normalize()
		}
		return Quat{X: 0, Y: -from.Z, Z: from.Y, W: 0}.Normalize()
	}

	c := from.Cross(to)
	return Quat{X: c.X, Y: c.Y, Z: c.Z, W: r}.Normalize()
}

// Rotate 把向量 v 按四元数旋转后返回。
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}
