package scene

import (
	"math"

	"molviz-go/internal/geometry"
)

// 相机约束：俯仰角避开极点，距离限制在合理的观察范围内。
const (
	maxPitch    = math.Pi/2 - 0.01
	minDistance = 1.0
	maxDistance = 50.0
)

// Camera 是查看器会话的轨道相机状态。它围绕 Target 以球面坐标
// (Distance, Yaw, Pitch) 定位，在场景重建之间保持不变。
type Camera struct {
	Target   geometry.Vec3 `json:"target"`
	Distance float64       `json:"distance"`
	Yaw      float64       `json:"yaw"`
	Pitch    float64       `json:"pitch"`
}

// NewCamera 返回初始相机：在 (0, 0, 5) 朝向原点。
func NewCamera() Camera {
	return Camera{Distance: 5}
}

// Position 返回相机的世界坐标。
func (c Camera) Position() geometry.Vec3 {
	return c.Target.Add(geometry.Vec3{
		X: c.Distance * math.Cos(c.Pitch) * math.Sin(c.Yaw),
		Y: c.Distance * math.Sin(c.Pitch),
		Z: c.Distance * math.Cos(c.Pitch) * math.Cos(c.Yaw),
	})
}

// Orbit 绕目标点旋转相机，dy 增大时向上抬升，俯仰角被钳制在极点内。
func (c *Camera) Orbit(dx, dy float64) {
	c.Yaw += dx
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch+dy))
}

// Zoom 沿视线推拉相机，距离被钳制在 [minDistance, maxDistance]。
func (c *Camera) Zoom(delta float64) {
	c.Distance = math.Max(minDistance, math.Min(maxDistance, c.Distance+delta))
}

// Pan 沿相机的右方向和上方向平移目标点，相机随之整体移动。
func (c *Camera) Pan(dx, dy float64) {
	forward := c.Target.Sub(c.Position()).Normalize()
	right := forward.Cross(geometry.AxisY).Normalize()
	if right.Length() == 0 {
		// 视线与世界上方向共线时退化，用 +X 代替
		right = geometry.AxisX
	}
	up := right.Cross(forward)
	c.Target = c.Target.Add(right.Scale(dx)).Add(up.Scale(dy))
}
