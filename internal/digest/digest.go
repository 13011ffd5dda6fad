// Package digest реализует инкрементальный SHA-256 с выгружаемым состоянием.
// Снимок состояния позволяет продолжить подсчёт отпечатка в другом процессе,
// не перечитывая уже сохранённые байты.
package digest

import (
	"crypto/sha256"
	"encoding"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
)

// Size — длина итогового отпечатка в байтах.
const Size = sha256.Size

var ErrFinalized = errors.New("digest already finalized")

// Engine считает SHA-256 по частям. После Finalize движок закрыт для записи;
// для продолжения между вызовами используется пара Export/Import.
type Engine struct {
	h     hash.Hash
	total int64
	done  bool
}

// New создаёт пустой движок (отпечаток пустого входа до первой записи).
func New() *Engine {
	return &Engine{h: sha256.New()}
}

// Write продвигает компрессию и счётчик длины; стоимость линейна от len(p)
// и не зависит от объёма уже обработанных данных.
func (e *Engine) Write(p []byte) (int, error) {
	if e.done {
		return 0, ErrFinalized
	}
	n, err := e.h.Write(p)
	e.total += int64(n)
	return n, err
}

// Total возвращает число байт, скормленных движку с момента создания
// (или восстановления: счётчик переживает Export/Import).
func (e *Engine) Total() int64 {
	return e.total
}

// Export выгружает побитово точный снимок: состояние компрессии, буфер
// неполного блока и общий счётчик байт. Счётчик обязан сохраниться точно —
// он определяет length-padding при финализации.
func (e *Engine) Export() ([]byte, error) {
	if e.done {
		return nil, ErrFinalized
	}
	m, ok := e.h.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("hash does not support state export")
	}
	inner, err := m.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal hash state: %w", err)
	}

	// Счётчик дублируем явно в префиксе снимка: Import не может достать его
	// из внутренностей хеша.
	out := make([]byte, 8, 8+len(inner))
	binary.BigEndian.PutUint64(out, uint64(e.total))
	return append(out, inner...), nil
}

// Import восстанавливает движок, эквивалентный тому, что делал Export:
// Import(Export()).Write(x) даёт тот же итог, что продолжение Write(x).
func Import(snapshot []byte) (*Engine, error) {
	if len(snapshot) < 8 {
		return nil, fmt.Errorf("digest snapshot too short: %d bytes", len(snapshot))
	}

	h := sha256.New()
	u, ok := h.(encoding.BinaryUnmarshaler)
	if !ok {
		return nil, fmt.Errorf("hash does not support state import")
	}
	if err := u.UnmarshalBinary(snapshot[8:]); err != nil {
		return nil, fmt.Errorf("unmarshal hash state: %w", err)
	}

	return &Engine{
		h:     h,
		total: int64(binary.BigEndian.Uint64(snapshot)),
	}, nil
}

// Preview считает итоговый отпечаток (с паддингом) на одноразовой копии
// состояния: возобновляемое состояние не расходуется, движок остаётся
// пригодным для дальнейших Write.
func (e *Engine) Preview() (string, error) {
	snap, err := e.Export()
	if err != nil {
		return "", err
	}
	scratch, err := Import(snap)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(scratch.h.Sum(nil)), nil
}

// Finalize выполняет одноразовый шаг паддинга и выдаёт отпечаток.
// После вызова движок закрыт: Write/Export/Preview возвращают ErrFinalized.
func (e *Engine) Finalize() (string, error) {
	if e.done {
		return "", ErrFinalized
	}
	e.done = true
	return hex.EncodeToString(e.h.Sum(nil)), nil
}
