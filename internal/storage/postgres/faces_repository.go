package postgres

import (
	"context"
	"fmt"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/faces"
)

var _ faces.Repository = (*FaceRepository)(nil)

func (r *FaceRepository) Add(ctx context.Context, encoding *faces.Encoding) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO face_encoding (id, user_id, face_encoding, created_at)
VALUES ($1, $2, $3, now())
`, encoding.ID, encoding.UserID, encoding.Embedding)
	if err != nil {
		return fmt.Errorf("insert face encoding: %w", err)
	}
	return nil
}

// ListUserNames restricts by the account's organization: the encoding row
// itself carries no tenant column, so isolation goes through the join.
func (r *FaceRepository) ListUserNames(ctx context.Context, schoolID string) ([]string, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT DISTINCT a.user_name
  FROM face_encoding f
  JOIN account a ON a.id = f.user_id
 WHERE a.organization_id = $1
 ORDER BY a.user_name ASC
`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list users with encodings: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan user name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *FaceRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}
