package command

import (
	"sync"

	"go.uber.org/zap"

	"pharmapos/internal/util"
)

// Invoker executes commands and keeps a last-in-first-undo history
type Invoker struct {
	mu      sync.Mutex
	history []Command
	logger  *zap.Logger
}

// NewInvoker creates an invoker with an empty history
func NewInvoker() *Invoker {
	return &Invoker{logger: util.GetLogger()}
}

// Run executes the command and, on success, appends it to the history
func (inv *Invoker) Run(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return err
	}
	inv.mu.Lock()
	inv.history = append(inv.history, cmd)
	inv.mu.Unlock()
	inv.logger.Info("Command executed", zap.String("command", cmd.Name()))
	return nil
}

// UndoLast pops the most recent command and undoes it if it is reversible.
// One-way commands report a diagnostic and change nothing. An empty
// history reports "nothing to undo" and returns false.
func (inv *Invoker) UndoLast() bool {
	inv.mu.Lock()
	n := len(inv.history)
	if n == 0 {
		inv.mu.Unlock()
		inv.logger.Info("Nothing to undo")
		return false
	}
	cmd := inv.history[n-1]
	inv.history = inv.history[:n-1]
	inv.mu.Unlock()

	util.CommandsUndoneTotal.WithLabelValues(cmd.Name()).Inc()

	rev, ok := cmd.(Reversible)
	if !ok {
		inv.logger.Warn("Command cannot be undone", zap.String("command", cmd.Name()))
		return true
	}
	if err := rev.Undo(); err != nil {
		inv.logger.Error("Undo failed",
			zap.String("command", cmd.Name()),
			zap.Error(err))
		return false
	}
	inv.logger.Info("Command undone", zap.String("command", cmd.Name()))
	return true
}

// HistoryLen returns the number of commands awaiting undo
func (inv *Invoker) HistoryLen() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.history)
}
