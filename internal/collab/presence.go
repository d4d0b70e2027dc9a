package collab

import (
	"fmt"

	"github.com/tgienger/taskboard/internal/models"
)

// DefaultStackSize is how many avatars a stack shows before "+N"
const DefaultStackSize = 5

// ActiveCount counts users whose status is active
func ActiveCount(users []models.User) int {
	n := 0
	for _, u := range users {
		if u.Status == models.UserActive {
			n++
		}
	}
	return n
}

// Summary describes who is viewing, counting only active users. It is empty
// when nobody is active.
func Summary(users []models.User) string {
	var first *models.User
	n := 0
	for i := range users {
		if users[i].Status != models.UserActive {
			continue
		}
		if first == nil {
			first = &users[i]
		}
		n++
	}
	switch n {
	case 0:
		return ""
	case 1:
		return first.Name + " is viewing"
	default:
		return fmt.Sprintf("%d people viewing", n)
	}
}

// Stack splits users into the ones to draw and how many are left over
func Stack(users []models.User, limit int) ([]models.User, int) {
	if limit <= 0 {
		limit = DefaultStackSize
	}
	if len(users) <= limit {
		return users, 0
	}
	return users[:limit], len(users) - limit
}
