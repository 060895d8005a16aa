package room

import (
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"cheesechase/game"
	"cheesechase/protocol"
)

type Options struct {
	Game        game.Config
	GracePeriod time.Duration // delay between a disconnect and the removal it triggers
	StaleAfter  time.Duration // idle time after which the sweep evicts a participant
	SweepEvery  time.Duration
	ResyncHz    int // 0 disables the periodic roundState push
	Logger      *log.Logger
	Now         func() time.Time
	Rand        *rand.Rand
}

func DefaultOptions() Options {
	return Options{
		Game:        game.DefaultConfig(),
		GracePeriod: time.Second,
		StaleAfter:  10 * time.Second,
		SweepEvery:  5 * time.Second,
		ResyncHz:    protocol.ResyncHz,
	}
}

// Room is the session gateway. Everything it owns is touched only from Run.
type Room struct {
	Inbox   chan any
	opts    Options
	state   *game.State
	clients map[string]Conn        // connID -> transport
	pending map[string]*time.Timer // participant id -> grace-period removal
	log     *log.Logger
	now     func() time.Time

	quit     chan struct{}
	stopOnce sync.Once
}

func New(opts Options) *Room {
	def := DefaultOptions()
	if opts.Game == (game.Config{}) {
		opts.Game = def.Game
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = def.GracePeriod
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = def.StaleAfter
	}
	if opts.SweepEvery <= 0 {
		opts.SweepEvery = def.SweepEvery
	}
	if opts.ResyncHz < 0 {
		opts.ResyncHz = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Room{
		Inbox:   make(chan any, 256),
		opts:    opts,
		state:   game.NewState(opts.Game, opts.Rand),
		clients: make(map[string]Conn),
		pending: make(map[string]*time.Timer),
		log:     logger.With("component", "room"),
		now:     opts.Now,
		quit:    make(chan struct{}),
	}
}

func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Post queues a command. It reports false once the room has stopped.
func (r *Room) Post(cmd any) bool {
	select {
	case <-r.quit:
		return false
	default:
	}
	select {
	case r.Inbox <- cmd:
		return true
	case <-r.quit:
		return false
	}
}

func (r *Room) Run() {
	sweep := time.NewTicker(r.opts.SweepEvery)
	defer sweep.Stop()

	var resync <-chan time.Time
	if r.opts.ResyncHz > 0 {
		t := time.NewTicker(time.Second / time.Duration(r.opts.ResyncHz))
		defer t.Stop()
		resync = t.C
	}
	defer r.shutdown()

	r.log.Info("room running",
		"grid", fmt.Sprintf("%dx%d", r.opts.Game.GridWidth, r.opts.Game.GridHeight),
		"winScore", r.opts.Game.WinScore,
		"grace", r.opts.GracePeriod,
		"staleAfter", r.opts.StaleAfter)

	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-sweep.C:
			r.sweepStale()
		case <-resync:
			if r.state.InProgress() {
				r.broadcast(protocol.MsgRoundState, r.buildRoundState())
			}
		}
	}
}

func (r *Room) shutdown() {
	for id, t := range r.pending {
		t.Stop()
		delete(r.pending, id)
	}
	for id, c := range r.clients {
		_ = c.Close()
		delete(r.clients, id)
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Connect:
		r.handleConnect(c)
	case Join:
		r.handleJoin(c)
	case StartRound:
		r.handleStartRound(c)
	case SetDirection:
		r.handleSetDirection(c)
	case Heartbeat:
		if !r.state.Touch(c.ID, r.now()) {
			r.log.Debug("heartbeat for unknown participant", "id", c.ID)
		}
	case Leave:
		r.dropConn(c.ConnID)
	case graceExpired:
		r.handleGraceExpired(c)
	case Query:
		select {
		case c.Reply <- r.buildRoundState():
		default:
			r.log.Warn("query reply channel not ready, dropping snapshot")
		}
	default:
		r.log.Debug("dropping unknown command", "type", fmt.Sprintf("%T", cmd))
	}
}

func (r *Room) handleConnect(c Connect) {
	if c.ConnID == "" || c.Conn == nil {
		return
	}
	if old, ok := r.clients[c.ConnID]; ok && old != c.Conn {
		_ = old.Close()
	}
	r.clients[c.ConnID] = c.Conn
	r.log.Debug("transport connected", "conn", c.ConnID, "clients", len(r.clients))
}

func (r *Room) handleJoin(c Join) {
	if c.ID == "" {
		r.log.Debug("join without id", "conn", c.ConnID)
		return
	}

	p, resumed := r.state.Upsert(c.ID, c.ConnID, r.now())
	if c.Name != "" {
		p.Name = c.Name
	}
	r.cancelPending(c.ID)
	snap := participantSnapshot(*p)
	r.log.Info("participant joined", "id", c.ID, "conn", c.ConnID, "resumed", resumed, "participants", r.state.Len())

	if conn, ok := r.clients[c.ConnID]; ok {
		cfg := r.state.Config()
		r.sendTo(c.ConnID, conn, protocol.MsgWelcome, protocol.Welcome{
			ID:         c.ID,
			Resumed:    resumed,
			GridWidth:  cfg.GridWidth,
			GridHeight: cfg.GridHeight,
			WinScore:   cfg.WinScore,
		})
		r.sendTo(c.ConnID, conn, protocol.MsgRoundState, r.buildRoundState())
	}
	r.broadcast(protocol.MsgRosterChanged, r.buildRoster())

	if c.Reply != nil {
		select {
		case c.Reply <- JoinResult{Participant: snap, Resumed: resumed}:
		default:
		}
	}
}

func (r *Room) handleStartRound(c StartRound) {
	if !r.state.StartRound() {
		r.log.Debug("start ignored, round already running", "conn", c.ConnID)
		return
	}
	r.log.Info("round started", "participants", r.state.Len(), "pickups", len(r.state.Pickups))
	r.broadcast(protocol.MsgRoundState, r.buildRoundState())
}

func (r *Room) handleSetDirection(c SetDirection) {
	dir, ok := game.ParseDirection(c.Direction)
	if !ok {
		r.log.Debug("dropping invalid direction", "id", c.ID, "direction", c.Direction)
		return
	}
	if !r.state.Touch(c.ID, r.now()) {
		r.log.Debug("direction for unknown participant", "id", c.ID, "conn", c.ConnID)
		return
	}
	if !r.state.ApplyIntent(c.ID, dir) {
		return
	}

	winner, won := r.state.ResolveCollisions()
	r.broadcast(protocol.MsgRoundState, r.buildRoundState())
	if won {
		r.log.Info("round won", "winner", winner)
		r.broadcast(protocol.MsgRoundWon, protocol.RoundWon{WinnerID: winner})
	}
}
