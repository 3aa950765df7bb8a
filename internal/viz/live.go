package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/jseverin/hmclab/internal/mcmc"
)

const (
	liveWidth       = 80
	liveHeight      = 14
	historyCapacity = 400
)

// LiveSample is one outer iteration's snapshot pushed to the live view.
type LiveSample struct {
	Iter       int
	Value      float64
	AcceptStat float64
	Warmup     bool
	Done       bool
}

// ChannelObserver forwards one scalar component of each sample to a channel.
// Sends never block; when the view falls behind, samples are dropped rather
// than stalling the chain.
type ChannelObserver struct {
	ch     chan LiveSample
	offset int
}

func NewChannelObserver(space *mcmc.Space, varName string) (*ChannelObserver, error) {
	offset, _, ok := space.Slot(varName)
	if !ok {
		return nil, fmt.Errorf("unknown variable: %s", varName)
	}
	return &ChannelObserver{
		ch:     make(chan LiveSample, historyCapacity),
		offset: offset,
	}, nil
}

func (o *ChannelObserver) OnSample(iter int, x mcmc.Vector, acceptStat float64, warmup bool) {
	select {
	case o.ch <- LiveSample{Iter: iter, Value: x[o.offset], AcceptStat: acceptStat, Warmup: warmup}:
	default:
	}
}

// Close signals the view that the chain finished.
func (o *ChannelObserver) Close() {
	o.ch <- LiveSample{Done: true}
}

type tickMsg time.Time

// LiveModel is the bubbletea model showing a running chain: a scrolling
// trace plot plus iteration, phase, and acceptance statistics.
type LiveModel struct {
	varName string
	obs     *ChannelObserver

	history   []float64
	acceptSum float64
	acceptN   int
	iter      int
	warmup    bool
	done      bool
}

func NewLiveModel(obs *ChannelObserver, varName string) LiveModel {
	return LiveModel{
		varName: varName,
		obs:     obs,
		warmup:  true,
		history: make([]float64, 0, historyCapacity),
	}
}

func (m LiveModel) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tickMsg:
		m.drain()
		if m.done {
			return m, tea.Quit
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

func (m *LiveModel) drain() {
	for {
		select {
		case s := <-m.obs.ch:
			if s.Done {
				m.done = true
				return
			}
			m.iter = s.Iter
			m.warmup = s.Warmup
			m.acceptSum += s.AcceptStat
			m.acceptN++
			m.history = append(m.history, s.Value)
			if len(m.history) > historyCapacity {
				m.history = m.history[len(m.history)-historyCapacity:]
			}
		default:
			return
		}
	}
}

func (m LiveModel) View() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("hmclab live chain"))
	sb.WriteString("\n")

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(liveHeight),
			asciigraph.Width(liveWidth),
			asciigraph.Caption(m.varName),
		)
		sb.WriteString(graphStyle.Render(graph))
		sb.WriteString("\n")
	}

	phase := sampleStyle.Render("sampling")
	if m.warmup {
		phase = warmupStyle.Render("warmup")
	}

	accept := 0.0
	if m.acceptN > 0 {
		accept = m.acceptSum / float64(m.acceptN)
	}

	sb.WriteString(labelStyle.Render("iteration"))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.iter)))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("phase"))
	sb.WriteString(phase)
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("accept stat"))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%.3f", accept)))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("q: quit"))

	return sb.String()
}
