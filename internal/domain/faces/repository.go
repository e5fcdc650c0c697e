package faces

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrWrongSchool  = errors.New("user does not belong to this school")
	ErrNoEncodings  = errors.New("no users with encodings found for this school")
)

// Encoding holds one opaque embedding blob for a user. The vector is a
// sequence of little-endian float64 values produced by an external
// extractor; its length and content are not validated here.
type Encoding struct {
	ID        string
	UserID    string
	Embedding []byte
	CreatedAt time.Time
}

// Vector decodes the stored blob into float64 components. A trailing
// partial value is dropped.
func (e Encoding) Vector() []float64 {
	count := len(e.Embedding) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(e.Embedding[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}

type Repository interface {
	Add(ctx context.Context, encoding *Encoding) error

	// ListUserNames returns the distinct display names of users in the
	// school that have at least one encoding.
	ListUserNames(ctx context.Context, schoolID string) ([]string, error)
}
