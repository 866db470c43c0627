package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sarchlab/clocktree/board"
	"github.com/sarchlab/clocktree/clock"
	"github.com/sarchlab/clocktree/epld"
	"github.com/sarchlab/clocktree/hwreg"
	"github.com/sarchlab/clocktree/pm"
)

const defaultBoard = "stx7100"

// config holds the settings that can come from the environment. Flags take
// precedence over it.
type config struct {
	Board string
	Port  int
	DB    string
}

// loadConfig reads the env file, if it exists, into the environment and then
// picks up the CLKTREE_* variables.
func loadConfig(envFile string) (config, error) {
	err := godotenv.Load(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	c := config{
		Board: defaultBoard,
		DB:    os.Getenv("CLKTREE_DB"),
	}

	if b := os.Getenv("CLKTREE_BOARD"); b != "" {
		c.Board = b
	}

	if p := os.Getenv("CLKTREE_PORT"); p != "" {
		c.Port, err = strconv.Atoi(p)
		if err != nil {
			return config{}, fmt.Errorf("CLKTREE_PORT: %w", err)
		}
	}

	return c, nil
}

// session is a board instantiated on a simulated bank.
type session struct {
	board *board.Board
	reg   *clock.Registry
	bank  *hwreg.Bank
	irq   *epld.Controller
	pm    *pm.Manager
}

func loadBoard(name string) (*board.Board, error) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return board.Load(name)
	}

	return board.Builtin(name)
}

func openSession() (*session, error) {
	b, err := loadBoard(cfg.Board)
	if err != nil {
		return nil, err
	}

	reg, bank, err := b.Instantiate()
	if err != nil {
		return nil, fmt.Errorf("board %s: %w", b.Name, err)
	}

	s := &session{
		board: b,
		reg:   reg,
		bank:  bank,
		pm:    pm.NewManager(reg),
	}

	if b.EPLD != nil {
		s.irq, err = b.NewEPLD(bank)
		if err != nil {
			return nil, fmt.Errorf("board %s: %w", b.Name, err)
		}
	}

	return s, nil
}
