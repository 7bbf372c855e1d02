package postgres

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
	var dueAt sql.NullTime
	var gradeWeight sql.NullFloat64
	err := row.Scan(&item.ID, &item.UserID, &item.Title, &dueAt, &item.EffortEstimate,
		&gradeWeight, &item.Category, &item.CourseID, &item.Completed)
	if err != nil {
		return models.WorkItem{}, err
	}
	item.DueAt = timePtr(dueAt)
	if gradeWeight.Valid {
		w := gradeWeight.Float64
		item.GradeWeight = &w
	}
	return item, nil
}

func (s *Store) GetWorkItem(id string) (models.WorkItem, error) {
	item, err := scanWorkItem(s.db.QueryRow("SELECT "+workItemColumns+" FROM work_items WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.WorkItem{}, fmt.Errorf("work item %s: %w", id, errs.ErrNotFound)
	}
	return item, err
}

func (s *Store) ListWorkItems(userID string) ([]models.WorkItem, error) {
	rows, err := s.db.Query(
		"SELECT "+workItemColumns+" FROM work_items WHERE user_id = $1 AND NOT completed ORDER BY due_at NULLS LAST",
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
		"INSERT INTO work_items ("+workItemColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		item.ID, item.UserID, item.Title, nullTime(item.DueAt), item.EffortEstimate,
		gradeWeight, item.Category, item.CourseID, item.Completed)
	if err != nil {
		return fmt.Errorf("failed to insert work item %s: %w", item.ID, err)
	}
	return nil
}
