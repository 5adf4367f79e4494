package planner

import "github.com/TWRT/savvystudy/internal/models"

// Summarize splits tasks by completion. AllCompleted is true for an empty list.
func Summarize(tasks []models.Task) models.Progress {
	p := models.Progress{
		Completed: []models.Task{},
		Pending:   []models.Task{},
	}
	for _, t := range tasks {
		if t.Completed {
			p.Completed = append(p.Completed, t)
		} else {
			p.Pending = append(p.Pending, t)
		}
	}
	p.CompletedCount = len(p.Completed)
	p.PendingCount = len(p.Pending)
	p.AllCompleted = p.PendingCount == 0
	return p
}
