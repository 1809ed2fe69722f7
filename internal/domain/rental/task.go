package rental

import "encoding/json"

const (
	DepartmentHousekeeping = "housekeeping"
	DefaultTaskLabel       = "Unnamed Task"
	AssignmentCompleted    = "completed"
)

// Assignment links a cleaner to a task. Empty fields mean the API did not
// send a value; use NameOr and StatusOr to pick the default for the context.
type Assignment struct {
	Name   string
	Status string
}

func (a Assignment) NameOr(def string) string {
	if a.Name == "" {
		return def
	}
	return a.Name
}

func (a Assignment) StatusOr(def string) string {
	if a.Status == "" {
		return def
	}
	return a.Status
}

func (a Assignment) Completed() bool { return a.Status == AssignmentCompleted }

// Task is a unit of work scheduled against a property. FinishedAt is the raw
// timestamp, empty while the task is open.
type Task struct {
	ID            ID
	HomeID        ID
	Department    string
	ScheduledDate string
	FinishedAt    string
	Label         string
	Assignments   []Assignment
}

func (t Task) Housekeeping() bool { return t.Department == DepartmentHousekeeping }

func (t Task) Finished() bool { return t.FinishedAt != "" }

// FinishedDate is the date portion of FinishedAt.
func (t Task) FinishedDate() string {
	if len(t.FinishedAt) < len(DateLayout) {
		return t.FinishedAt
	}
	return t.FinishedAt[:len(DateLayout)]
}

type wireAssignment struct {
	Name           *string `json:"name"`
	TaskUserStatus *string `json:"type_task_user_status"`
}

type wireTask struct {
	ID            ID               `json:"id"`
	HomeID        ID               `json:"home_id"`
	Department    *string          `json:"type_department"`
	ScheduledDate *string          `json:"scheduled_date"`
	FinishedAt    *string          `json:"finished_at"`
	Type          *string          `json:"type"`
	Name          *string          `json:"name"`
	Assignments   []wireAssignment `json:"assignments"`
}

// DecodeTask normalizes a task list entry or a task detail record. The label
// prefers type, then name, then DefaultTaskLabel.
func DecodeTask(raw json.RawMessage) (Task, error) {
	var w wireTask
	if err := json.Unmarshal(raw, &w); err != nil {
		return Task{}, err
	}
	t := Task{
		ID:            w.ID,
		HomeID:        w.HomeID,
		Department:    orDefault(w.Department, ""),
		ScheduledDate: orDefault(w.ScheduledDate, ""),
		FinishedAt:    orDefault(w.FinishedAt, ""),
		Label:         orDefault(w.Type, orDefault(w.Name, DefaultTaskLabel)),
	}
	for _, a := range w.Assignments {
		t.Assignments = append(t.Assignments, Assignment{
			Name:   orDefault(a.Name, ""),
			Status: orDefault(a.TaskUserStatus, ""),
		})
	}
	return t, nil
}
