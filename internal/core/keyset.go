package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// DefaultChunkSize bounds the number of identifiers sent in one IN-list query.
const DefaultChunkSize = 200

// ExtractUnique returns the distinct non-empty keys of rows in first-seen order.
func ExtractUnique[T any](rows []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// IsValidUUID reports whether id has the canonical RFC 4122 shape:
// 36 characters, version 1-5, RFC 4122 variant. Case-insensitive.
func IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	if v := u.Version(); v < 1 || v > 5 {
		return false
	}
	return u.Variant() == uuid.RFC4122
}

// ValidUUIDs keeps only syntactically valid identifiers. Malformed ones are
// dropped so they never reach a backend IN filter.
func ValidUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if IsValidUUID(id) {
			out = append(out, id)
		}
	}
	return out
}

// Chunk splits ids into consecutive batches of at most size elements.
// size <= 0 falls back to DefaultChunkSize.
func Chunk(ids []string, size int) [][]string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end:end])
	}
	return chunks
}

// fetchChunked validates ids, then runs fetch once per chunk in order and
// concatenates the results, dropping rows whose id was already returned.
// The first failing chunk fails the whole fetch; chunks are not retried.
func fetchChunked[T any](
	ctx context.Context,
	ids []string,
	size int,
	rowID func(T) string,
	fetch func(ctx context.Context, chunk []string) ([]T, error),
) ([]T, error) {
	var out []T
	seen := make(map[string]struct{})
	chunks := Chunk(ValidUUIDs(ids), size)
	for i, chunk := range chunks {
		rows, err := fetch(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		for _, row := range rows {
			id := rowID(row)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, row)
		}
	}
	return out, nil
}
