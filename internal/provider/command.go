package provider

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tidwall/gjson"
)

// CommandProvider obtains the current time from a local privileged command,
// used preferentially over the network when the host environment provides
// one. The command receives the IANA zone as its last argument and must print
// {"epoch_millis": <number>} on stdout.
type CommandProvider struct {
	Argv []string
}

func (p *CommandProvider) Name() string {
	return "command"
}

func (p *CommandProvider) Fetch(ctx context.Context, zone string) (int64, error) {
	if len(p.Argv) == 0 {
		return 0, errors.New("no time command configured")
	}

	args := make([]string, 0, len(p.Argv))
	args = append(args, p.Argv[1:]...)
	args = append(args, zone)

	out, err := exec.CommandContext(ctx, p.Argv[0], args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return 0, fmt.Errorf("time command failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return 0, fmt.Errorf("time command failed: %w", err)
	}

	v := gjson.GetBytes(out, "epoch_millis")
	if !v.Exists() || v.Type != gjson.Number {
		return 0, fmt.Errorf("time command output missing epoch_millis")
	}
	return v.Int(), nil
}
