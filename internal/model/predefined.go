package model

// PredefinedMolecules 是进程启动时写入存储的内置分子集合。
var PredefinedMolecules = []MoleculeSpec{
	{
		Name:    "water",
		Formula: "H2O",
		Structure: Structure{
			Atoms: []Atom{
				{ID: 1, X: 0, Y: 0, Z: 0, Color: 0xff0000},      // 氧（红）
				{ID: 2, X: -0.8, Y: 0.6, Z: 0, Color: 0xffffff}, // 氢 1（白）
				{ID: 3, X: 0.8, Y: 0.6, Z: 0, Color: 0xffffff},  // 氢 2（白）
			},
			Bonds: []Bond{
				{AtomIDs: [2]int{1, 2}},
				{AtomIDs: [2]int{1, 3}},
			},
		},
	},
	{
		Name:    "methane",
		Formula: "CH4",
		Structure: Structure{
			Atoms: []Atom{
				{ID: 1, X: 0, Y: 0, Z: 0, Color: 0x808080}, // 碳（灰）
				{ID: 2, X: 1, Y: 1, Z: 1, Color: 0xffffff},
				{ID: 3, X: -1, Y: -1, Z: 1, Color: 0xffffff},
				{ID: 4, X: 1, Y: -1, Z: -1, Color: 0xffffff},
				{ID: 5, X: -1, Y: 1, Z: -1, Color: 0xffffff},
			},
			Bonds: []Bond{
				{AtomIDs: [2]int{1, 2}},
				{AtomIDs: [2]int{1, 3}},
				{AtomIDs: [2]int{1, 4}},
				{AtomIDs: [2]int{1, 5}},
			},
		},
	},
}
