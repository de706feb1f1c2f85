package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnavailable is returned by Put when no bucket is configured.
var ErrUnavailable = errors.New("Object storage not available")

// Store writes binary objects and returns a URL the object can be fetched from.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Key builds the object key for an employee document.
func Key(employeeID, id, fileName string) string {
	return fmt.Sprintf("documents/%s/%s-%s", employeeID, id, fileName)
}

type unavailable struct{}

// Unavailable is the store used when no bucket is configured.
func Unavailable() Store {
	return unavailable{}
}

func (unavailable) Put(context.Context, string, []byte, string) (string, error) {
	return "", ErrUnavailable
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
