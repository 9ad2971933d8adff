// Package tui implements the interactive diagnostic console: three
// live channel-data panes driven by keyboard actions against a WIB
// readout server.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coldbox-daq/wibscope/cli/config"
	"github.com/coldbox-daq/wibscope/daq"
	"github.com/coldbox-daq/wibscope/metrics"
	"github.com/coldbox-daq/wibscope/view"
	"github.com/coldbox-daq/wibscope/wire"
)

// PollInterval is the delay between continuous-mode acquisitions,
// measured from the moment the previous result is observed.
const PollInterval = 500 * time.Millisecond

// Commander is the slice of the transport client the console drives.
type Commander interface {
	Acquire() (*daq.Capture, error)
	Configure(req *wire.ConfigureWIB) error
	SetPulser(on bool) error
}

type acquireState int

const (
	stateIdle acquireState = iota
	statePolling
)

type captureMsg struct {
	capture *daq.Capture
	err     error
}

type opMsg struct {
	op  string
	on  bool
	err error
}

// pollTickMsg carries the sequence number of the polling run that
// scheduled it so ticks from a stopped run are discarded.
type pollTickMsg struct {
	seq int
}

// Model is the root Bubble Tea model for the console.
type Model struct {
	commander Commander
	server    string
	cfgPath   string

	views   []view.View
	focused int

	state    acquireState
	pollSeq  int
	busy     bool
	pulserOn bool

	width  int
	height int

	status  string
	statErr bool

	keys     keyMap
	help     help.Model
	spin     spinner.Model
	coll     *metrics.Collector
	captures int
}

// NewModel builds a console talking to c. The config path is read
// each time the configure action fires, so edits take effect without
// a restart. The collector is the one wired into c's transport; its
// counters show in the status line. A nil collector shows zeros.
func NewModel(server, cfgPath string, c Commander, coll *metrics.Collector) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		commander: c,
		server:    server,
		cfgPath:   cfgPath,
		coll:      coll,
		views: []view.View{
			view.NewMeanRMSView(),
			view.NewHistView(),
			view.NewSpectrumView(),
		},
		status: "ready",
		keys:   defaultKeyMap(),
		help:   help.New(),
		spin:   sp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m Model) acquireCmd() tea.Cmd {
	return func() tea.Msg {
		c, err := m.commander.Acquire()
		return captureMsg{capture: c, err: err}
	}
}

func (m Model) configureCmd() tea.Cmd {
	path := m.cfgPath
	return func() tea.Msg {
		cfg, err := config.Load(path)
		if err != nil {
			return opMsg{op: "configure", err: err}
		}
		return opMsg{op: "configure", err: m.commander.Configure(cfg.ToWire())}
	}
}

func (m Model) pulserCmd(on bool) tea.Cmd {
	return func() tea.Msg {
		return opMsg{op: "pulser", on: on, err: m.commander.SetPulser(on)}
	}
}

func (m Model) pollTick() tea.Cmd {
	seq := m.pollSeq
	return tea.Tick(PollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{seq: seq}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Acquire):
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "acquiring..."
			m.statErr = false
			return m, m.acquireCmd()

		case key.Matches(msg, m.keys.Continuous):
			if m.state == statePolling {
				m.state = stateIdle
				m.pollSeq++
				m.status = "continuous acquisition stopped"
				m.statErr = false
				return m, nil
			}
			m.state = statePolling
			m.pollSeq++
			m.status = "continuous acquisition started"
			m.statErr = false
			if m.busy {
				// In-flight capture reschedules on completion.
				return m, nil
			}
			m.busy = true
			return m, m.acquireCmd()

		case key.Matches(msg, m.keys.Configure):
			m.status = "configuring..."
			m.statErr = false
			return m, m.configureCmd()

		case key.Matches(msg, m.keys.Pulser):
			return m, m.pulserCmd(!m.pulserOn)

		case key.Matches(msg, m.keys.NextView):
			m.focused = (m.focused + 1) % len(m.views)
			return m, nil
		}
		return m, nil

	case captureMsg:
		m.busy = false
		if msg.err != nil {
			m.status = fmt.Sprintf("acquisition failed: %v", msg.err)
			m.statErr = true
		} else {
			m.captures++
			for _, v := range m.views {
				if err := v.Load(msg.capture); err != nil {
					m.status = fmt.Sprintf("%s: %v", v.Title(), err)
					m.statErr = true
					break
				}
			}
			if !m.statErr {
				m.status = fmt.Sprintf("capture %d: %d samples", m.captures, msg.capture.NumSamples)
			}
		}
		if m.state == statePolling {
			return m, m.pollTick()
		}
		return m, nil

	case pollTickMsg:
		if msg.seq != m.pollSeq || m.state != statePolling {
			return m, nil
		}
		if m.busy {
			// Manual acquisition in flight; its result reschedules.
			return m, nil
		}
		m.busy = true
		return m, m.acquireCmd()

	case opMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
			m.statErr = true
			return m, nil
		}
		switch msg.op {
		case "pulser":
			m.pulserOn = msg.on
			if msg.on {
				m.status = "pulser enabled"
			} else {
				m.status = "pulser disabled"
			}
		case "configure":
			m.status = "configuration applied"
		}
		m.statErr = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "starting up..."
	}

	header := titleStyle.Render("wibscope") +
		statusStyle.Render(m.server) +
		m.pulserLabel()

	helpLine := m.help.View(m.keys)

	statusLine := m.statusLine()

	chrome := lipgloss.Height(header) + lipgloss.Height(statusLine) + lipgloss.Height(helpLine)
	paneH := m.height - chrome - 2
	if paneH < 4 {
		paneH = 4
	}
	paneW := m.width/len(m.views) - 4
	if paneW < 16 {
		paneW = 16
	}

	panes := make([]string, len(m.views))
	for i, v := range m.views {
		title := paneTitleStyle.Render(v.Title())
		if i == m.focused {
			title = titleStyle.Render(v.Title())
		}
		body := v.Render(paneW, paneH-1)
		panes[i] = paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, panes...),
		statusLine,
		helpLine,
	)
}

func (m Model) pulserLabel() string {
	if m.pulserOn {
		return pulserOnStyle.Render("  pulser: on")
	}
	return pulserOffStyle.Render("  pulser: off")
}

func (m Model) statusLine() string {
	line := m.status
	if m.busy {
		line = m.spin.View() + " " + line
	}
	if m.state == statePolling {
		line += "  [continuous]"
	}
	snap := m.coll.Snapshot()
	line += fmt.Sprintf("  ok=%d fail=%d", snap.AcquisitionsSucceeded, snap.AcquisitionsFailed)
	if m.statErr {
		return errorStyle.Render(line)
	}
	return statusStyle.Render(line)
}

// Run starts the console in the alternate screen and blocks until
// the user quits.
func Run(server, cfgPath string, c Commander, coll *metrics.Collector) error {
	_, err := tea.NewProgram(NewModel(server, cfgPath, c, coll), tea.WithAltScreen()).Run()
	return err
}
