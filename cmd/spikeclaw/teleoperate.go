package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/danielvflores/lego-spike-claw/pkg/command"
	"github.com/danielvflores/lego-spike-claw/pkg/hub"
	"github.com/danielvflores/lego-spike-claw/pkg/input"
	"github.com/danielvflores/lego-spike-claw/pkg/teleop"
)

type TeleoperateCommand struct {
	ConnectOptions
	Timeout int    `long:"timeout" default:"30" description:"Scan timeout in seconds"`
	Gamepad string `long:"gamepad" description:"evdev gamepad device (e.g. /dev/input/event5)" value-name:"DEV"`
	Start   bool   `long:"start" description:"Start the stored hub program before teleoperating"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Motor colors - distinct colors for each motor
var motorColors = map[command.Motor]string{
	command.MotorHorizontal: "208", // orange
	command.MotorVertical:   "46",  // green
	command.MotorClaw:       "201", // magenta
}

var motorLabels = map[command.Motor]string{
	command.MotorHorizontal: "A horizontal",
	command.MotorVertical:   "C vertical",
	command.MotorClaw:       "E claw",
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	perpStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

type teleopModel struct {
	ctrl     *teleop.Controller
	h        *hub.Hub
	chart    *streamlinechart.Model
	width    int      // terminal width
	height   int      // terminal height
	logs     []string // last N log messages
	state    teleop.State
	quitting bool
}

func (m *teleopModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller and the hub
type stateMsg teleop.State
type logMsg string
type hubMsg string

func waitForState(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

func waitForHub(h *hub.Hub) tea.Cmd {
	return func() tea.Msg {
		return hubMsg(<-h.Stdout())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *teleopModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *teleopModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialTeleopModel(ctrl *teleop.Controller, h *hub.Hub) teleopModel {
	sp := ctrl.Speeds()
	limit := float64(sp.Drive)
	if float64(sp.Claw) > limit {
		limit = float64(sp.Claw)
	}
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-limit, limit),
	)

	// Set up data set styles for each motor
	for _, name := range command.AllMotors() {
		color := motorColors[name]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(string(name), runes.ThinLineStyle, style)
	}

	return teleopModel{
		ctrl:  ctrl,
		h:     h,
		chart: &chart,
	}
}

func (m teleopModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
		waitForHub(m.h),
	)
}

func (m teleopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		key := command.NormalizeKey(msg.String())
		switch key {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "1":
			m.ctrl.SetPerpetualClaw(command.ClawClose)
		case "2":
			m.ctrl.SetPerpetualClaw(command.ClawOpen)
		case "3":
			m.ctrl.ClearPerpetual()
		default:
			if command.IsControlKey(key) {
				m.ctrl.Tap(key)
			}
		}
		return m, nil

	case stateMsg:
		state := teleop.State(msg)
		m.state = state
		if state.Speeds != nil {
			for name, speed := range state.Speeds {
				m.chart.PushDataSet(string(name), float64(speed))
			}
			m.chart.DrawAll()
		}
		if state.Error != nil {
			m.addLog(fmt.Sprintf("error: %v", state.Error))
		}
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)

	case hubMsg:
		m.addLog("hub: " + string(msg))
		return m, waitForHub(m.h)
	}

	return m, nil
}

func (m teleopModel) View() string {
	if m.quitting {
		return "Teleoperation stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("spikeclaw Teleoperate"))
	sb.WriteString("  " + m.renderStatus())
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("250"))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("WASD drive · IJKL slow · space/G claw · M/N slow claw · R claw stop · 1/2/3 perpetual · q quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func (m teleopModel) renderStatus() string {
	drive := string(m.state.Command.Drive)
	claw := string(m.state.Command.Claw)
	if drive == "" {
		drive = string(command.DriveStop)
	}
	if claw == "" {
		claw = string(command.ClawStop)
	}

	parts := []string{
		"drive=" + activeStyle.Render(drive),
		"claw=" + activeStyle.Render(claw),
	}
	if len(m.state.Pressed) > 0 {
		parts = append(parts, "keys="+strings.Join(m.state.Pressed, "+"))
	}
	if m.state.Perpetual {
		parts = append(parts, perpStyle.Render("[PERPETUAL]"))
	}
	return strings.Join(parts, "  ")
}

func renderLegend() string {
	var items []string
	for _, name := range command.AllMotors() {
		color := motorColors[name]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		item := colorStyle.Render("━━") + " " + motorLabels[name]
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

func (c *TeleoperateCommand) Execute(args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, cfg, err := c.connect(ctx, time.Duration(c.Timeout)*time.Second)
	if err != nil {
		return err
	}
	defer h.Close()

	if c.Start || !h.ProgramRunning() {
		// Kick the stored dispatcher program. Harmless if one is
		// already running on the hub.
		if err := h.StartProgram(ctx); err != nil {
			log.Printf("start hub program: %v", err)
		}
	}

	ctrl, err := teleop.NewController(teleop.Config{
		Hub:    h,
		Speeds: cfg.Speeds,
	})
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}

	go func() {
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	if c.Gamepad != "" {
		pad, err := input.Open(c.Gamepad, input.DefaultMapping(), ctrl)
		if err != nil {
			return fmt.Errorf("open gamepad: %w", err)
		}
		defer pad.Close()
		go func() {
			if err := pad.Run(ctx); err != nil && err != context.Canceled {
				log.Printf("Gamepad error: %v", err)
			}
		}()
	}

	p := tea.NewProgram(initialTeleopModel(ctrl, h), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	// Give the controller a moment to push its stop commands before the
	// connection closes.
	cancel()
	time.Sleep(200 * time.Millisecond)

	return nil
}
