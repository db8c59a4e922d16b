// Package model 包含了应用的数据模型定义。
package model

// Atom 代表结构中的一个原子。坐标为原始存储值，渲染时不被修改。
type Atom struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Color int     `json:"color"` // RGB 整数，例如 0xff0000
}

// Bond 代表连接两个原子的化学键，除原子 id 对之外没有自己的标识。
type Bond struct {
	AtomIDs [2]int `json:"atomIds"`
}

// LonePair 是分子上一个纯装饰性的孤对电子位置。
type LonePair struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Structure 是分子几何的声明式描述：有序的原子与化学键集合，
// 以及可选的孤对电子。不变式：原子 id 唯一，每个键引用的原子必须存在。
type Structure struct {
	Atoms     []Atom     `json:"atoms"`
	Bonds     []Bond     `json:"bonds"`
	LonePairs []LonePair `json:"lonePairs,omitempty"`
}

// Molecule 是存储中的分子记录，独占其 Structure。
type Molecule struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Formula   string    `json:"formula"`
	Structure Structure `json:"structure"`
}

// MoleculeSpec 是创建分子时的输入，id 由存储分配。
type MoleculeSpec struct {
	Name      string    `json:"name"`
	Formula   string    `json:"formula"`
	Structure Structure `json:"structure"`
}
