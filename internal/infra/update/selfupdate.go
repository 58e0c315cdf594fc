// Package update aplica un self-update vía checkout del tag publicado.
// Sólo toca el working tree; reiniciar el proceso es problema del supervisor.
package update

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Apply hace fetch de tags y checkout del tag indicado. Se niega fuera de un
// repo git o con cambios trackeados sin commitear.
func Apply(tag string) error {
	root, err := gitRoot()
	if err != nil {
		return fmt.Errorf("auto-update skipped: %w", err)
	}
	dirty, err := hasTrackedChanges(root)
	if err != nil {
		return fmt.Errorf("auto-update skipped: %w", err)
	}
	if dirty {
		return fmt.Errorf("auto-update skipped: working tree has tracked changes")
	}
	if out, err := run(root, "fetch", "--tags", "origin"); err != nil {
		return fmt.Errorf("fetch tags: %w (%s)", err, out)
	}
	if out, err := run(root, "checkout", tag); err != nil {
		return fmt.Errorf("checkout %s: %w (%s)", tag, err, out)
	}
	log.Info().Str("tag", tag).Msg("checked out release tag")
	return nil
}

func gitRoot() (string, error) {
	out, err := run("", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository")
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", fmt.Errorf("not a git repository")
	}
	return root, nil
}

// hasTrackedChanges: archivos sin trackear no bloquean el update, cambios
// trackeados sí.
func hasTrackedChanges(root string) (bool, error) {
	out, err := run(root, "status", "--porcelain")
	if err != nil {
		return true, fmt.Errorf("git status: %w", err)
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, "?? ") {
			return true, nil
		}
	}
	return false, nil
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var buf strings.Builder
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.String(), err
}
