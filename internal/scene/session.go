package scene

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"molviz-go/internal/config"
	"molviz-go/internal/geometry"
	"molviz-go/internal/model"
	"molviz-go/pkg/log"
)

const defaultFrameInterval = 33 * time.Millisecond

// MessageWriter 抽象 WebSocket 消息写入，便于在测试中替换连接。
type MessageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// MoleculeSource 提供按 id 查找分子的能力，由存储层实现。
type MoleculeSource interface {
	GetMolecule(id int) (model.Molecule, error)
}

// controlMessage 是客户端发来的控制消息。Type 决定使用哪些字段。
type controlMessage struct {
	Type       string  `json:"type"`
	DX         float64 `json:"dx"`
	DY         float64 `json:"dy"`
	Delta      float64 `json:"delta"`
	Value      float64 `json:"value"`
	MoleculeID int     `json:"moleculeId"`
}

// sceneMessage 在每次重建后推送完整的场景图。
type sceneMessage struct {
	Type       string `json:"type"`
	Revision   int    `json:"revision"`
	MoleculeID int    `json:"moleculeId"`
	Graph      *Graph `json:"graph"`
}

// frameMessage 由渲染循环按固定节奏推送，只携带相机状态。
type frameMessage struct {
	Type     string      `json:"type"`
	Revision int         `json:"revision"`
	Camera   cameraState `json:"camera"`
}

type cameraState struct {
	Position geometry.Vec3 `json:"position"`
	Target   geometry.Vec3 `json:"target"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Session 是一个活动查看器视图。相机状态与三个输入（键长因子、
// 孤对电子开关、键角开关）属于会话；任何输入变化都在处理该消息的
// 同一调用栈上同步重建场景图，相机状态在重建之间保持不变。
type Session struct {
	id     string
	source MoleculeSource

	mu       sync.Mutex
	writer   MessageWriter
	molecule model.Molecule
	camera   Camera
	opts     Options
	graph    *Graph
	revision int

	frameInterval time.Duration
}

// NewSession 创建会话并构建初始场景。molecule 的结构必须合法。
func NewSession(source MoleculeSource, writer MessageWriter, mol model.Molecule, cfg config.ViewerConfig) (*Session, error) {
	interval := defaultFrameInterval
	if cfg.FrameIntervalMs > 0 {
		interval = time.Duration(cfg.FrameIntervalMs) * time.Millisecond
	}

	s := &Session{
		id:            uuid.NewString(),
		source:        source,
		writer:        writer,
		molecule:      mol,
		camera:        NewCamera(),
		opts:          Options{BondLengthFactor: 1, ArcRadius: cfg.ArcRadius},
		frameInterval: interval,
	}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// ID 返回会话标识，用于日志关联。
func (s *Session) ID() string {
	return s.id
}

// Run 驱动会话直到连接关闭或上下文取消：一个 goroutine 跑渲染循环，
// 当前 goroutine 读取控制消息。返回时渲染循环已停止，没有遗留的
// goroutine 或定时器。
func (s *Session) Run(ctx context.Context, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.frameLoop(ctx)
	}()

	s.sendScene()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Infof("查看器会话 %s 连接关闭: %v", s.id, err)
			break
		}
		if err := s.HandleControl(raw); err != nil {
			log.Warnf("查看器会话 %s 控制消息处理失败: %v", s.id, err)
			s.sendError(err)
		}
	}

	cancel()
	wg.Wait()
}

// HandleControl 解析并应用一条控制消息。输入变化会同步重建场景图；
// 纯相机操作不触发重建。
func (s *Session) HandleControl(raw []byte) error {
	var msg controlMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("invalid control message: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case "orbit":
		s.camera.Orbit(msg.DX, msg.DY)
		return nil
	case "zoom":
		s.camera.Zoom(msg.Delta)
		return nil
	case "pan":
		s.camera.Pan(msg.DX, msg.DY)
		return nil
	case "set_factor":
		if msg.Value <= 0 {
			return fmt.Errorf("bond length factor must be positive, got %v", msg.Value)
		}
		s.opts.BondLengthFactor = msg.Value
	case "toggle_lone_pairs":
		s.opts.ShowLonePairs = !s.opts.ShowLonePairs
	case "toggle_bond_angles":
		s.opts.ShowBondAngles = !s.opts.ShowBondAngles
	case "set_molecule":
		mol, err := s.source.GetMolecule(msg.MoleculeID)
		if err != nil {
			return fmt.Errorf("set_molecule %d: %w", msg.MoleculeID, err)
		}
		s.molecule = mol
	default:
		return fmt.Errorf("unknown control message type %q", msg.Type)
	}

	if err := s.rebuildLocked(); err != nil {
		return err
	}
	s.sendSceneLocked()
	return nil
}

// rebuild 丢弃旧场景图并从当前输入整体重建。
func (s *Session) rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildLocked()
}

func (s *Session) rebuildLocked() error {
	g, err := Build(s.molecule.Structure, s.opts)
	if err != nil {
		return err
	}
	s.graph = g
	s.revision++
	return nil
}

func (s *Session) frameLoop(ctx context.Context) {
	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sendFrame(); err != nil {
				return
			}
		}
	}
}

func (s *Session) sendFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(frameMessage{
		Type:     "frame",
		Revision: s.revision,
		Camera:   cameraState{Position: s.camera.Position(), Target: s.camera.Target},
	})
}

func (s *Session) sendScene() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendSceneLocked()
}

func (s *Session) sendSceneLocked() {
	_ = s.writeLocked(sceneMessage{
		Type:       "scene",
		Revision:   s.revision,
		MoleculeID: s.molecule.ID,
		Graph:      s.graph,
	})
}

func (s *Session) sendError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.writeLocked(errorMessage{Type: "error", Error: err.Error()})
}

// writeLocked 序列化并写出一条消息，调用方必须持有 s.mu，
// 以保证渲染循环与控制处理不会交错写同一个连接。
func (s *Session) writeLocked(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.writer.WriteMessage(websocket.TextMessage, b)
}
