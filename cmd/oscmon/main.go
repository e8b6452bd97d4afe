// Command oscmon shows a live terminal view of incoming OSC traffic: one row
// per address with a packet counter and the most recent arguments.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nanoosc/nanoosc/osc"
)

var (
	flagListen   string
	flagInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "oscmon",
	Short: "Live monitor for incoming OSC traffic",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&flagListen, "listen", "0.0.0.0:8765", "local host:port to bind")
	rootCmd.Flags().DurationVar(&flagInterval, "interval", 10*time.Millisecond, "poll interval")
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("241"))
	addrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Width(8).Align(lipgloss.Right)
	footStyle   = lipgloss.NewStyle().Faint(true)
)

type packetMsg struct {
	addr string
	args string
}

type row struct {
	count int
	last  string
}

type model struct {
	listen string
	rows   map[string]*row
	total  int
	height int
}

func newModel(listen string) model {
	return model{listen: listen, rows: make(map[string]*row)}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height

	case packetMsg:
		r, ok := m.rows[msg.addr]
		if !ok {
			r = &row{}
			m.rows[msg.addr] = r
		}
		r.count++
		r.last = msg.args
		m.total++
	}

	return m, nil
}

func (m model) View() string {
	s := titleStyle.Render(fmt.Sprintf("oscmon %s", m.listen)) + "\n"
	s += headerStyle.Render(fmt.Sprintf("%8s  %-32s %s", "COUNT", "ADDRESS", "LAST ARGUMENTS")) + "\n"

	addrs := make([]string, 0, len(m.rows))
	for a := range m.rows {
		addrs = append(addrs, a)
	}
	sort.Strings(addrs)

	for _, a := range addrs {
		r := m.rows[a]
		s += countStyle.Render(fmt.Sprintf("%d", r.count)) +
			"  " + addrStyle.Render(fmt.Sprintf("%-32s", a)) +
			" " + r.last + "\n"
	}

	s += footStyle.Render(fmt.Sprintf("%d packets, press q to quit", m.total))
	return s
}

func formatArgs(msg *osc.Message) string {
	args := ""
	for i, a := range msg.Arguments {
		if i > 0 {
			args += " "
		}
		if b, ok := a.([]byte); ok {
			args += fmt.Sprintf("blob(%d)", len(b))
			continue
		}
		args += fmt.Sprintf("%v", a)
	}
	return args
}

func run(cmd *cobra.Command, args []string) error {
	server, err := osc.Listen(flagListen)
	if err != nil {
		return fmt.Errorf("bind %s: %w", flagListen, err)
	}
	defer server.Close()

	// Decode warnings would scribble over the TUI.
	server.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	p := tea.NewProgram(newModel(flagListen), tea.WithAltScreen())

	sendMessage := func(msg *osc.Message) {
		p.Send(packetMsg{addr: msg.Address, args: formatArgs(msg)})
	}
	server.SetMessageHandler(sendMessage)

	var sendBundle func(b *osc.Bundle)
	sendBundle = func(b *osc.Bundle) {
		for _, msg := range b.Messages {
			sendMessage(msg)
		}
		for _, nb := range b.Bundles {
			sendBundle(nb)
		}
	}
	server.SetBundleHandler(sendBundle)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go server.Serve(ctx, flagInterval)

	_, err = p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
