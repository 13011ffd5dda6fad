package classify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultTimeout = 2 * time.Second

// FileCmd определяет content-type, запуская внешнюю утилиту file(1).
// Вызов блокирующий и ограничен таймаутом; любая ошибка означает
// "тип не определён" и не должна блокировать финализацию.
type FileCmd struct {
	Command string
	Timeout time.Duration
}

// New создаёт адаптер; пустая command означает "file" из PATH.
func New(command string) *FileCmd {
	if strings.TrimSpace(command) == "" {
		command = "file"
	}
	return &FileCmd{
		Command: command,
		Timeout: defaultTimeout,
	}
}

// Classify возвращает MIME-тип содержимого файла по пути path.
func (c *FileCmd) Classify(ctx context.Context, path string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.Command, "-b", "--mime-type", path).Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", c.Command, err)
	}

	ct := strings.TrimSpace(string(out))
	// file(1) печатает ровно "type/subtype"; всё прочее считаем мусором.
	if ct == "" || !strings.Contains(ct, "/") || strings.ContainsAny(ct, " \n") {
		return "", fmt.Errorf("unexpected classifier output %q", ct)
	}
	return ct, nil
}
