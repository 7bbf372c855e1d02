package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/studyloop/cadence/internal/errs"
	"github.com/studyloop/cadence/internal/models"
)

const workItemColumns = "id, user_id, title, due_at, effort_min, grade_weight, category, course_id, completed"

func scanWorkItem(row interface{ Scan(dest ...any) error }) (models.WorkItem, error) {
	var item models.WorkItem
	var dueAt sql.NullString
	var gradeWeight sql.NullFloat64
	var completed int
	err := row.Scan(&item.ID, &item.UserID, &item.Title, &dueAt, &item.EffortEstimate, &gradeWeight, &item.Category, &item.CourseID, &completed)
	if err != nil {
		return models.WorkItem{}, err
	}
	if item.DueAt, err = decodeTimePtr(dueAt); err != nil {
		return models.WorkItem{}, fmt.Errorf("bad due_at for work item %s: %w", item.ID, err)
	}
	if gradeWeight.Valid {
		w := gradeWeight.Float64
		item.GradeWeight = &w
	}
	item.Completed = completed != 0
	return item, nil
}

func (s *Store) GetWorkItem(id string) (models.WorkItem, error) {
	item, err := scanWorkItem(s.db.QueryRow("SELECT "+workItemColumns+" FROM work_items WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.WorkItem{}, fmt.Errorf("work item %s: %w", id, errs.ErrNotFound)
	}
	return item, err
}

func (s *Store) ListWorkItems(userID string) ([]models.WorkItem, error) {
	rows, err := s.db.Query(
		"SELECT "+workItemColumns+" FROM work_items WHERE user_id = ? AND completed = 0 ORDER BY due_at IS NULL, due_at",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}
	defer rows.Close()

	var items []models.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) AddWorkItem(item models.WorkItem) error {
	var gradeWeight sql.NullFloat64
	if item.GradeWeight != nil {
		gradeWeight = sql.NullFloat64{Float64: *item.GradeWeight, Valid: true}
	}
	_, err := s.db.Exec(
		"INSERT INTO work_items ("+workItemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.UserID, item.Title, encodeTimePtr(item.DueAt), item.EffortEstimate,
		gradeWeight, item.Category, item.CourseID, boolInt(item.Completed))
	if err != nil {
		return fmt.Errorf("failed to insert work item %s: %w", item.ID, err)
	}
	return nil
}
