package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/egyptian-spider/game/engine"
	"github.com/wricardo/egyptian-spider/game/session"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check persisted sessions for corrupt games",
		ArgsUsage: "[session-file ...]",
		Flags:     storageFlags(),
		Action:    runValidate,
	}
}

// errValidationFailed is returned when at least one record fails its check
var errValidationFailed = errors.New("validation failed")

func runValidate(ctx context.Context, cmd *cli.Command) error {
	logger, err := loggerFor(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	failed := 0
	report := func(name string, record *session.PersistedSessionData, loadErr error) {
		if err := checkRecord(record, loadErr); err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", name, err)
			return
		}
		if len(record.Game) == 0 {
			fmt.Fprintf(out, "OK   %s (no game)\n", name)
			return
		}
		fmt.Fprintf(out, "OK   %s\n", name)
	}

	if cmd.Args().Len() > 0 {
		for _, path := range cmd.Args().Slice() {
			record, err := readRecordFile(path)
			report(path, record, err)
		}
	} else {
		persistence, closeFn, err := openPersistence(ctx, cmd, logger)
		if err != nil {
			return err
		}
		defer closeFn()

		ids, err := persistence.ListAll()
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		logger.Debug("validating sessions", zap.Int("count", len(ids)))
		for _, id := range ids {
			record, err := persistence.Load(id)
			report(id, record, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d corrupt records", errValidationFailed, failed)
	}
	return nil
}

func readRecordFile(path string) (*session.PersistedSessionData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record session.PersistedSessionData
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, errors.Join(session.ErrCorruptSession, err)
	}
	return &record, nil
}

// checkRecord decodes the stored game, which also validates every card
// layout in its history
func checkRecord(record *session.PersistedSessionData, loadErr error) error {
	if loadErr != nil {
		return loadErr
	}
	if len(record.Game) == 0 {
		return nil
	}
	_, err := engine.DecodeSavedGame(record.Game)
	return err
}
