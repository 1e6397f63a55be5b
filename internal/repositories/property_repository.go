package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"propertyBack/internal/models"
)

const propertyColumns = `property_id, title, description, price, location, created_at`

type PropertyRepository struct {
	DB *sql.DB
	// Driver is the database/sql driver name; it decides the placeholder style.
	Driver string
}

func NewPropertyRepository(db *sql.DB, driver string) *PropertyRepository {
	return &PropertyRepository{DB: db, Driver: driver}
}

// rebind rewrites ? placeholders to $n for postgres.
func (r *PropertyRepository) rebind(query string) string {
	if r.Driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (r *PropertyRepository) ListProperties(ctx context.Context) ([]models.Property, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY created_at, property_id`)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.PropertyID, &p.Title, &p.Description, &p.Price, &p.Location, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return properties, nil
}

func (r *PropertyRepository) GetPropertyByID(ctx context.Context, id string) (models.Property, error) {
	var p models.Property
	query := r.rebind(`SELECT ` + propertyColumns + ` FROM properties WHERE property_id = ?`)
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&p.PropertyID, &p.Title, &p.Description, &p.Price, &p.Location, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Property{}, models.ErrNoRecord
		}
		return models.Property{}, fmt.Errorf("get property %s: %w", id, err)
	}
	return p, nil
}

// CreateProperty inserts p. created_at is assigned here and never updated.
func (r *PropertyRepository) CreateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	p.Price = math.Round(p.Price*100) / 100
	p.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	query := r.rebind(`INSERT INTO properties (` + propertyColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := r.DB.ExecContext(ctx, query, p.PropertyID, p.Title, p.Description, p.Price, p.Location, p.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Property{}, models.ErrDuplicateProperty
		}
		return models.Property{}, fmt.Errorf("insert property: %w", err)
	}
	return p, nil
}

func (r *PropertyRepository) DeleteProperty(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, r.rebind(`DELETE FROM properties WHERE property_id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	if affected == 0 {
		return models.ErrNoRecord
	}
	return nil
}
