package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Domain Events - Events that occur within the meal plan

// RecipeCreatedEvent is raised when a recipe is added to the plan
type RecipeCreatedEvent struct {
	ID        uuid.UUID
	RecipeKey string
	Name      string
	CreatedAt time.Time
}

func (e RecipeCreatedEvent) EventID() uuid.UUID    { return e.ID }
func (e RecipeCreatedEvent) EventName() string     { return "recipe.created" }
func (e RecipeCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// RecipeUpdatedEvent is raised when a recipe's content is replaced
type RecipeUpdatedEvent struct {
	ID        uuid.UUID
	RecipeKey string
	Meals     int
	UpdatedAt time.Time
}

func (e RecipeUpdatedEvent) EventID() uuid.UUID    { return e.ID }
func (e RecipeUpdatedEvent) EventName() string     { return "recipe.updated" }
func (e RecipeUpdatedEvent) OccurredAt() time.Time { return e.UpdatedAt }

// RecipeDeletedEvent is raised when a recipe and its meals are removed
type RecipeDeletedEvent struct {
	ID           uuid.UUID
	RecipeKey    string
	MealsRemoved int
	DeletedAt    time.Time
}

func (e RecipeDeletedEvent) EventID() uuid.UUID    { return e.ID }
func (e RecipeDeletedEvent) EventName() string     { return "recipe.deleted" }
func (e RecipeDeletedEvent) OccurredAt() time.Time { return e.DeletedAt }

// MealScheduledEvent is raised when a meal is added
type MealScheduledEvent struct {
	ID          uuid.UUID
	Meal        MealKey
	ScheduledAt time.Time
}

func (e MealScheduledEvent) EventID() uuid.UUID    { return e.ID }
func (e MealScheduledEvent) EventName() string     { return "meal.scheduled" }
func (e MealScheduledEvent) OccurredAt() time.Time { return e.ScheduledAt }

// MealUnscheduledEvent is raised when a meal is removed
type MealUnscheduledEvent struct {
	ID            uuid.UUID
	Meal          MealKey
	UnscheduledAt time.Time
}

func (e MealUnscheduledEvent) EventID() uuid.UUID    { return e.ID }
func (e MealUnscheduledEvent) EventName() string     { return "meal.unscheduled" }
func (e MealUnscheduledEvent) OccurredAt() time.Time { return e.UnscheduledAt }

// MealRescheduledEvent is raised when a meal is replaced by another
type MealRescheduledEvent struct {
	ID            uuid.UUID
	From          MealKey
	To            MealKey
	RescheduledAt time.Time
}

func (e MealRescheduledEvent) EventID() uuid.UUID    { return e.ID }
func (e MealRescheduledEvent) EventName() string     { return "meal.rescheduled" }
func (e MealRescheduledEvent) OccurredAt() time.Time { return e.RescheduledAt }
