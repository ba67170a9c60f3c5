// Package monitor exposes a piico.Registry on the bus. It rescans on a timer,
// publishes what is connected, and answers control requests. The registry is
// only touched from the service goroutine.
package monitor

import (
	"context"
	"slices"
	"time"

	"piicoinfo-go/bus"
	"piicoinfo-go/errcode"
	"piicoinfo-go/services/piico"
	"piicoinfo-go/types"
)

// Topic tokens
const (
	TokConfig    = "config"
	TokPiico     = "piico"
	TokConnected = "connected"
	TokReport    = "report"
	TokStatus    = "status"
	TokControl   = "control"
)

// Control verbs
const (
	CtrlRescan  = "rescan"
	CtrlClear   = "clear"
	CtrlWhatIs  = "what_is"
	CtrlListAll = "list_all"
)

var (
	TopicConfig    = bus.Topic{TokConfig, TokPiico}
	TopicConnected = bus.Topic{TokPiico, TokConnected}
	TopicReport    = bus.Topic{TokPiico, TokReport}
	TopicStatus    = bus.Topic{TokPiico, TokStatus}
	topicCtrl      = bus.Topic{TokPiico, TokControl, "+"}
)

// ControlTopic returns the request topic for verb.
func ControlTopic(verb string) bus.Topic { return bus.Topic{TokPiico, TokControl, verb} }

type Service struct {
	reg  *piico.Registry
	conn *bus.Connection
	cfg  types.MonitorConfig

	last      []types.Address
	published bool
	tick      *time.Ticker
}

// New wraps reg. The service owns reg from Start onwards.
func New(reg *piico.Registry) *Service {
	return &Service{
		reg: reg,
		cfg: types.MonitorConfig{Interval: types.DefaultMonitorInterval},
	}
}

// Start runs the service loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if s.reg == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "monitor", Msg: "nil registry"}
	}
	s.conn = conn
	cfgSub := conn.Subscribe(TopicConfig)
	ctrlSub := conn.Subscribe(topicCtrl)
	go s.serviceLoop(ctx, cfgSub, ctrlSub)
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, cfgSub, ctrlSub *bus.Subscription) {
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(ctrlSub)

	s.publish(true)
	s.setInterval(s.cfg.Interval)
	defer s.stopTicker()

	for {
		select {
		case <-ctx.Done():
			println("Info: piico monitor stopping")
			return

		case <-s.tickC():
			s.rescan(false)

		case msg, ok := <-cfgSub.Channel():
			if !ok {
				println("Info: piico monitor disconnected")
				return
			}
			cfg, ok := msg.Payload.(types.MonitorConfig)
			if !ok {
				println("Error: piico monitor: config payload has wrong type")
				continue
			}
			s.applyConfig(cfg)

		case msg, ok := <-ctrlSub.Channel():
			if !ok {
				println("Info: piico monitor disconnected")
				return
			}
			s.handleControl(msg)
		}
	}
}

func (s *Service) applyConfig(cfg types.MonitorConfig) {
	if cfg.Interval < 0 {
		cfg.Interval = 0
	}
	if cfg.Interval != s.cfg.Interval {
		s.setInterval(cfg.Interval)
		println("Info: piico rescan interval set to", cfg.Interval.String())
	}
	s.cfg = cfg
	// Mode or external table may have changed the report text.
	s.publish(true)
}

func (s *Service) handleControl(msg *bus.Message) {
	if len(msg.Topic) != 3 {
		return
	}
	verb, _ := msg.Topic[2].(string)

	switch verb {
	case CtrlRescan:
		if err := s.rescan(true); err != nil {
			s.replyErr(msg, err)
			return
		}
		s.reply(msg, s.reg.DescribeConnected(s.cfg.Mode, s.cfg.External))

	case CtrlClear:
		s.reg.Clear()
		s.publish(false)
		s.reply(msg, s.reg.DescribeConnected(s.cfg.Mode, s.cfg.External))

	case CtrlWhatIs:
		req, ok := whatIsRequest(msg.Payload)
		if !ok {
			s.replyErr(msg, errcode.InvalidParams)
			return
		}
		s.reply(msg, s.reg.DescribeAddress(req.Addr, req.Mode.Or(s.cfg.Mode), s.external(req.External)))

	case CtrlListAll:
		var req types.ListRequest
		if msg.Payload != nil {
			p, ok := msg.Payload.(types.ListRequest)
			if !ok {
				s.replyErr(msg, errcode.InvalidParams)
				return
			}
			req = p
		}
		s.reply(msg, s.reg.ListAll(req.Mode.Or(s.cfg.Mode), req.Conflicts, s.external(req.External)))

	default:
		s.replyErr(msg, errcode.Unsupported)
	}
}

// whatIsRequest accepts a bare Address or a WhatIsRequest.
func whatIsRequest(p any) (types.WhatIsRequest, bool) {
	switch v := p.(type) {
	case types.Address:
		return types.WhatIsRequest{Addr: v}, true
	case types.WhatIsRequest:
		return v, true
	}
	return types.WhatIsRequest{}, false
}

func (s *Service) external(t types.Table) types.Table {
	if t != nil {
		return t
	}
	return s.cfg.External
}

// rescan refreshes the registry. Connected/report are republished when the
// set changed or force is set; status is always published.
func (s *Service) rescan(force bool) error {
	if err := s.reg.Rescan(); err != nil {
		println("Error: piico rescan failed:", err.Error())
		s.publishStatus(err)
		return err
	}
	s.publish(force)
	return nil
}

func (s *Service) publish(force bool) {
	cur := s.reg.Connected()
	if force || !s.published || !slices.Equal(cur, s.last) {
		if s.published && !slices.Equal(cur, s.last) {
			println("Info: piico devices changed, now", len(cur), "connected")
		}
		s.last = cur
		s.published = true
		s.conn.Publish(s.conn.NewMessage(TopicConnected, slices.Clone(cur), true))
		s.conn.Publish(s.conn.NewMessage(TopicReport, s.reg.DescribeConnected(s.cfg.Mode, s.cfg.External), true))
	}
	s.publishStatus(nil)
}

func (s *Service) publishStatus(err error) {
	st := types.MonitorStatus{Connected: s.reg.ConnectedCount(), TS: time.Now().UnixMilli()}
	if err != nil {
		st.Error = string(errcode.Of(err))
	}
	s.conn.Publish(s.conn.NewMessage(TopicStatus, st, true))
}

func (s *Service) reply(req *bus.Message, recs []types.Record) {
	s.conn.Reply(req, types.Reply{OK: true, Records: recs}, false)
}

func (s *Service) replyErr(req *bus.Message, err error) {
	s.conn.Reply(req, types.Reply{OK: false, Error: string(errcode.Of(err))}, false)
}

// ---- ticker ----

func (s *Service) setInterval(d time.Duration) {
	if d <= 0 {
		s.stopTicker()
		return
	}
	if s.tick == nil {
		s.tick = time.NewTicker(d)
		return
	}
	s.tick.Reset(d)
}

func (s *Service) stopTicker() {
	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
}

// tickC is nil, and so never ready, while periodic rescans are off.
func (s *Service) tickC() <-chan time.Time {
	if s.tick == nil {
		return nil
	}
	return s.tick.C
}
