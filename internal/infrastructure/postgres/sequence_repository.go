package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/trastienda-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo numerador de documentos sobre PostgreSQL: un contador atómico
// por (tipo, día). El upsert con RETURNING garantiza unicidad y monotonicidad
// bajo concurrencia sin ventana de carrera.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el numerador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente número con formato {PREFIJO}-{YYYYMMDD}-{NNNN}.
func (r *SequenceRepo) Next(ctx context.Context, documentType string, date time.Time) (string, error) {
	day := date.Format("20060102")
	query := `
		INSERT INTO document_sequences (doc_type, seq_date, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, seq_date)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, documentType, day).Scan(&n); err != nil {
		return "", fmt.Errorf("next sequence %s: %w", documentType, err)
	}
	return fmt.Sprintf("%s-%s-%04d", documentType, day, n), nil
}
