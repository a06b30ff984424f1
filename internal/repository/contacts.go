package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/entity"
)

// ErrContactNotFound indicates there is no contact row for the given id.
var ErrContactNotFound = errors.New("contact not found")

// ContactsRepository describes persistence operations for contacts. Every
// operation is scoped to the owning user.
type ContactsRepository interface {
	List(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) ([]entity.Contact, error)
	Count(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) (int, error)
	Page(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter, offset, limit int) ([]entity.Contact, error)
	BulkUpsert(ctx context.Context, userID uuid.UUID, records []ContactUpsertInput) (BulkUpsertResult, error)
	Update(ctx context.Context, userID, id uuid.UUID, input dto.UpdateContactRequest) (*entity.Contact, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	IDsMatching(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) ([]uuid.UUID, error)
	BulkUpdate(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, fields dto.BulkContactFields) (int, error)
	BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error)
	DistinctAttributes(ctx context.Context, userID uuid.UUID, scope dto.AttributeScope) (dto.AttributeOptions, error)
}

// ContactUpsertInput carries one screened record into the bulk upsert.
type ContactUpsertInput struct {
	Email      string
	Name       *string
	Phone      *string
	Country    *string
	State      *string
	City       *string
	Website    *string
	Profession *string
	Branch     *string
}

// BulkUpsertResult summarises the number of rows inserted or updated.
type BulkUpsertResult struct {
	Inserted int
	Updated  int
	Total    int
}

// PGXContactsRepository implements ContactsRepository using pgx.
type PGXContactsRepository struct {
	pool pgxPool
}

// NewPGXContactsRepository wires a pgx backed repository.
func NewPGXContactsRepository(pool *pgxpool.Pool) *PGXContactsRepository {
	return &PGXContactsRepository{pool: pool}
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const contactColumns = `
        id,
        user_id,
        email,
        name,
        phone,
        country,
        state,
        city,
        website,
        profession,
        branch,
        import_date,
        created_at,
        updated_at
`

// filterClauses renders the WHERE conditions for a contact filter. The
// user_id clause always comes first; argument numbering continues from the
// returned index.
func filterClauses(userID uuid.UUID, filter dto.ContactFilter) ([]string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{userID}
	idx := 2

	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR website ILIKE $%d OR phone ILIKE $%d)", idx, idx, idx, idx))
		args = append(args, pattern)
		idx++
	}
	if filter.Country != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(country) = LOWER($%d)", idx))
		args = append(args, filter.Country)
		idx++
	}
	if filter.State != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(state) = LOWER($%d)", idx))
		args = append(args, filter.State)
		idx++
	}
	if filter.City != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(city) = LOWER($%d)", idx))
		args = append(args, filter.City)
		idx++
	}
	if filter.Profession != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(profession) = LOWER($%d)", idx))
		args = append(args, filter.Profession)
		idx++
	}
	if filter.Branch != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(branch) = LOWER($%d)", idx))
		args = append(args, filter.Branch)
		idx++
	}
	if filter.Phone != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Phone)
		clauses = append(clauses, fmt.Sprintf("phone ILIKE $%d", idx))
		args = append(args, pattern)
		idx++
	}

	return clauses, args
}

// List retrieves one page of contacts, newest first.
func (r *PGXContactsRepository) List(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) ([]entity.Contact, error) {
	offset := (filter.Page - 1) * filter.PerPage
	if offset < 0 {
		offset = 0
	}
	return r.Page(ctx, userID, filter, offset, filter.PerPage)
}

// Page retrieves contacts at an explicit offset, used for export paging.
func (r *PGXContactsRepository) Page(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter, offset, limit int) ([]entity.Contact, error) {
	clauses, args := filterClauses(userID, filter)
	query := fmt.Sprintf(
		"SELECT %s FROM contacts WHERE %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d",
		contactColumns, strings.Join(clauses, " AND "), len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// Count returns how many contacts match the filter.
func (r *PGXContactsRepository) Count(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) (int, error) {
	clauses, args := filterClauses(userID, filter)
	query := fmt.Sprintf("SELECT COUNT(*) FROM contacts WHERE %s", strings.Join(clauses, " AND "))

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return count, nil
}

const contactUpsertSQL = `
        INSERT INTO contacts (user_id, email, name, phone, country, state, city, website, profession, branch, import_date, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
        ON CONFLICT (user_id, email) DO UPDATE SET
            name = COALESCE(EXCLUDED.name, contacts.name),
            phone = COALESCE(EXCLUDED.phone, contacts.phone),
            country = COALESCE(EXCLUDED.country, contacts.country),
            state = COALESCE(EXCLUDED.state, contacts.state),
            city = COALESCE(EXCLUDED.city, contacts.city),
            website = COALESCE(EXCLUDED.website, contacts.website),
            profession = COALESCE(EXCLUDED.profession, contacts.profession),
            branch = COALESCE(EXCLUDED.branch, contacts.branch),
            import_date = NOW(),
            updated_at = NOW()
        RETURNING xmax = 0;
    `

// BulkUpsert persists a batch of screened records keyed by (user_id, email).
// Existing rows are enriched: incoming nulls never erase stored values. The
// batch runs in one transaction, so a failure rolls every row back and the
// result reports nothing as persisted.
func (r *PGXContactsRepository) BulkUpsert(ctx context.Context, userID uuid.UUID, records []ContactUpsertInput) (BulkUpsertResult, error) {
	var result BulkUpsertResult
	if len(records) == 0 {
		return result, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return BulkUpsertResult{}, fmt.Errorf("start bulk upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		var inserted bool
		err := tx.QueryRow(ctx, contactUpsertSQL,
			userID,
			record.Email,
			record.Name,
			record.Phone,
			record.Country,
			record.State,
			record.City,
			record.Website,
			record.Profession,
			record.Branch,
		).Scan(&inserted)
		if err != nil {
			return BulkUpsertResult{}, fmt.Errorf("upsert contact %q: %w", record.Email, err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return BulkUpsertResult{}, fmt.Errorf("commit bulk upsert tx: %w", err)
	}

	return result, nil
}

// Update applies a partial edit and returns the stored row.
func (r *PGXContactsRepository) Update(ctx context.Context, userID, id uuid.UUID, input dto.UpdateContactRequest) (*entity.Contact, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{userID, id}
	idx := 3

	assign := func(column string, value *string) {
		if value == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, nullable(*value))
		idx++
	}
	assign("name", input.Name)
	assign("phone", input.Phone)
	assign("country", input.Country)
	assign("state", input.State)
	assign("city", input.City)
	assign("website", input.Website)
	assign("profession", input.Profession)
	assign("branch", input.Branch)

	query := fmt.Sprintf(
		"UPDATE contacts SET %s WHERE user_id = $1 AND id = $2 RETURNING %s",
		strings.Join(sets, ", "), contactColumns,
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	defer rows.Close()

	contacts, err := scanContacts(rows)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, ErrContactNotFound
	}
	return &contacts[0], nil
}

// Delete removes a single contact.
func (r *PGXContactsRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

// IDsMatching returns the ids of every contact matching the filter, used to
// expand filter-wide bulk actions.
func (r *PGXContactsRepository) IDsMatching(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) ([]uuid.UUID, error) {
	clauses, args := filterClauses(userID, filter)
	query := fmt.Sprintf("SELECT id FROM contacts WHERE %s", strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contact ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan contact id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// BulkUpdate applies the non-empty fields to the given contacts.
func (r *PGXContactsRepository) BulkUpdate(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, fields dto.BulkContactFields) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sets := []string{"updated_at = NOW()"}
	args := []any{userID, ids}
	idx := 3

	assign := func(column, value string) {
		if value == "" {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}
	assign("country", fields.Country)
	assign("state", fields.State)
	assign("city", fields.City)
	assign("profession", fields.Profession)
	assign("branch", fields.Branch)
	assign("phone", fields.Phone)

	if len(sets) == 1 {
		return 0, nil
	}

	query := fmt.Sprintf(
		"UPDATE contacts SET %s WHERE user_id = $1 AND id = ANY($2)",
		strings.Join(sets, ", "),
	)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update contacts: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// BulkDelete removes the given contacts and reports how many went away.
func (r *PGXContactsRepository) BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete contacts: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DistinctAttributes collects the dropdown filter values. States and cities
// narrow to the selected country/state when the scope is set.
func (r *PGXContactsRepository) DistinctAttributes(ctx context.Context, userID uuid.UUID, scope dto.AttributeScope) (dto.AttributeOptions, error) {
	options := dto.AttributeOptions{}

	var err error
	if options.Countries, err = r.distinct(ctx, "country", userID, "", ""); err != nil {
		return options, err
	}
	if options.States, err = r.distinct(ctx, "state", userID, scope.Country, ""); err != nil {
		return options, err
	}
	if options.Cities, err = r.distinct(ctx, "city", userID, scope.Country, scope.State); err != nil {
		return options, err
	}
	if options.Professions, err = r.distinct(ctx, "profession", userID, "", ""); err != nil {
		return options, err
	}
	if options.Branches, err = r.distinct(ctx, "branch", userID, "", ""); err != nil {
		return options, err
	}

	return options, nil
}

func (r *PGXContactsRepository) distinct(ctx context.Context, column string, userID uuid.UUID, country, state string) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT %s FROM contacts WHERE user_id = $1 AND %s IS NOT NULL AND %s <> ''", column, column, column)
	args := []any{userID}
	idx := 2

	if country != "" {
		query += fmt.Sprintf(" AND LOWER(country) = LOWER($%d)", idx)
		args = append(args, country)
		idx++
	}
	if state != "" {
		query += fmt.Sprintf(" AND LOWER(state) = LOWER($%d)", idx)
		args = append(args, state)
	}
	query += fmt.Sprintf(" ORDER BY %s", column)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan distinct %s: %w", column, err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

func scanContacts(rows pgx.Rows) ([]entity.Contact, error) {
	var contacts []entity.Contact
	for rows.Next() {
		var (
			contact    entity.Contact
			name       sql.NullString
			phone      sql.NullString
			country    sql.NullString
			state      sql.NullString
			city       sql.NullString
			website    sql.NullString
			profession sql.NullString
			branch     sql.NullString
			importDate sql.NullTime
		)
		if err := rows.Scan(
			&contact.ID,
			&contact.UserID,
			&contact.Email,
			&name,
			&phone,
			&country,
			&state,
			&city,
			&website,
			&profession,
			&branch,
			&importDate,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}

		contact.Name = stringPtr(name)
		contact.Phone = stringPtr(phone)
		contact.Country = stringPtr(country)
		contact.State = stringPtr(state)
		contact.City = stringPtr(city)
		contact.Website = stringPtr(website)
		contact.Profession = stringPtr(profession)
		contact.Branch = stringPtr(branch)
		if importDate.Valid {
			t := importDate.Time
			contact.ImportDate = &t
		}

		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}

func nullable(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}
