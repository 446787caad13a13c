package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"sevens-bot/server/engine"
)

// C holds the console palette.
var C = struct {
	Play, Pass, Info, Warn, Header, Red *color.Color
}{
	Play:   color.New(color.FgGreen, color.Bold),
	Pass:   color.New(color.FgYellow),
	Info:   color.New(color.FgCyan),
	Warn:   color.New(color.FgHiYellow),
	Header: color.New(color.FgWhite, color.Bold),
	Red:    color.New(color.FgRed),
}

type console struct {
	log   *logrus.Logger
	out   io.Writer
	table []engine.Card
	hand  []engine.Card
}

func newConsole(log *logrus.Logger, out io.Writer) *console {
	return &console{log: log, out: out}
}

func runREPL(log *logrus.Logger) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	c := newConsole(log, os.Stdout)
	C.Header.Fprintln(c.out, "--- Sevens console ---")
	c.help()
	for {
		input, err := line.Prompt("sevens> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				C.Info.Fprintln(c.out, "Goodbye!")
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		quit, err := c.exec(input)
		if err != nil {
			C.Warn.Fprintf(c.out, "%v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command line and reports whether the console should exit.
func (c *console) exec(input string) (bool, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	c.log.WithFields(logrus.Fields{"cmd": cmd, "args": args}).Debug("console command")

	switch cmd {
	case "table", "t":
		cs, err := engine.ParseCards(args)
		if err != nil {
			return false, err
		}
		c.table = cs
		c.show()
	case "hand", "h":
		cs, err := engine.ParseCards(args)
		if err != nil {
			return false, err
		}
		c.hand = cs
		c.show()
	case "play", "p":
		if len(args) != 1 {
			return false, errors.New("usage: play <card>")
		}
		return false, c.play(args[0])
	case "ranges", "r":
		c.renderRanges()
	case "decide", "d":
		c.decide()
	case "deal":
		var seed int64
		if len(args) > 0 {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return false, fmt.Errorf("bad seed %q", args[0])
			}
			seed = n
		}
		c.deal(seed)
		c.show()
	case "clear":
		c.table, c.hand = nil, nil
		C.Info.Fprintln(c.out, "cleared")
	case "help", "?":
		c.help()
	case "quit", "q", "exit":
		C.Info.Fprintln(c.out, "Goodbye!")
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
	return false, nil
}

func (c *console) play(arg string) error {
	card, err := engine.ParseCard(arg)
	if err != nil {
		return err
	}
	for i, h := range c.hand {
		if h != card {
			continue
		}
		fits := false
		for _, r := range engine.Ranges(c.table) {
			if r.Fits(card) {
				fits = true
			}
		}
		c.hand = append(c.hand[:i:i], c.hand[i+1:]...)
		c.table = append(c.table, card)
		if !fits {
			C.Warn.Fprintf(c.out, "%s did not extend any run\n", card)
		}
		c.show()
		return nil
	}
	return fmt.Errorf("%s is not in the hand", card)
}

// deal puts the four sevens on the table and deals 13 other cards.
func (c *console) deal(seed int64) {
	c.table = c.table[:0]
	for _, s := range engine.Suits {
		c.table = append(c.table, engine.Card{Number: engine.Base, Suit: s})
	}
	c.hand = c.hand[:0]
	for _, card := range engine.NewDeck(seed) {
		if card.Number == engine.Base {
			continue
		}
		c.hand = append(c.hand, card)
		if len(c.hand) == 13 {
			break
		}
	}
}

func (c *console) decide() {
	playable := engine.Playable(c.table, c.hand)
	d := engine.SelectMove(c.table, c.hand)
	if d.Pass {
		C.Pass.Fprintln(c.out, "pass")
		return
	}
	parts := make([]string, len(playable))
	for i, p := range playable {
		parts[i] = colorCard(p)
	}
	C.Play.Fprintf(c.out, "play %s", d.Card())
	fmt.Fprintf(c.out, "  (%d playable: %s)\n", len(playable), strings.Join(parts, " "))
}

func (c *console) show() {
	fmt.Fprintf(c.out, "table: %s\n", colorCards(c.table))
	fmt.Fprintf(c.out, "hand:  %s\n", colorCards(c.hand))
}

func (c *console) renderRanges() {
	ranges := map[engine.Suit]engine.SuitRange{}
	for _, r := range engine.Ranges(c.table) {
		ranges[r.Suit] = r
	}
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetTitle("Open runs")
	t.AppendHeader(table.Row{"Suit", "On table", "Low", "High", "Playable from hand"})
	for _, s := range engine.Suits {
		var nums []int
		for _, card := range c.table {
			if card.Suit == s {
				nums = append(nums, card.Number)
			}
		}
		sort.Ints(nums)
		onTable := make([]string, len(nums))
		for i, n := range nums {
			onTable[i] = strconv.Itoa(n)
		}
		r, ok := ranges[s]
		if !ok {
			t.AppendRow(table.Row{colorSuit(s), strings.Join(onTable, " "), "-", "-", "-"})
			continue
		}
		var fit []engine.Card
		for _, h := range c.hand {
			if r.Fits(h) {
				fit = append(fit, h)
			}
		}
		t.AppendRow(table.Row{colorSuit(s), strings.Join(onTable, " "), r.Low, r.High, colorCards(fit)})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

func (c *console) help() {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.AppendHeader(table.Row{"Command", "Alias", "Description"})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"table <cards...>", "t", "Replace the cards on the table, e.g. table D7 S7."},
		{"hand <cards...>", "h", "Replace the hand, e.g. hand D6 H10."},
		{"play <card>", "p", "Move a card from the hand to the table."},
		{"ranges", "r", "Show the open runs per suit."},
		{"decide", "d", "Pick the card to play, or pass."},
		{"deal [seed]", "", "Sevens on the table and a random 13-card hand."},
		{"clear", "", "Empty table and hand."},
		{"help", "?", "Show this help message."},
		{"quit", "q", "Exit."},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func colorSuit(s engine.Suit) string {
	if s == engine.Diamonds || s == engine.Hearts {
		return C.Red.Sprint(s.String())
	}
	return s.String()
}

func colorCard(card engine.Card) string {
	if card.Suit == engine.Diamonds || card.Suit == engine.Hearts {
		return C.Red.Sprint(card.String())
	}
	return card.String()
}

func colorCards(cs []engine.Card) string {
	if len(cs) == 0 {
		return "(none)"
	}
	parts := make([]string, len(cs))
	for i, card := range cs {
		parts[i] = colorCard(card)
	}
	return strings.Join(parts, " ")
}
