package types

import (
	"testing"
	"time"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestAgeBoundAllows(t *testing.T) {
	title := &database.Title{MinAge: intPtr(10), MaxAge: intPtr(14)}
	assert.True(t, NoAgeBound().Allows(title))
	assert.True(t, AgeOf(10).Allows(title))
	assert.True(t, AgeOf(14).Allows(title))
	assert.False(t, AgeOf(9).Allows(title))
	assert.False(t, AgeOf(15).Allows(title))
	assert.True(t, AgeOf(3).Allows(&database.Title{}), "missing bounds are open")
	assert.Equal(t, -1, NoAgeBound().Age())
}

func TestBoundFor(t *testing.T) {
	student := &database.User{Role: database.RoleStudent, Age: 12}
	teacher := &database.User{Role: database.RoleTeacher, Age: 40}

	assert.Equal(t, 12, BoundFor(student, nil).Age())
	assert.Equal(t, 10, BoundFor(student, intPtr(10)).Age(), "a request may lower the bound")
	assert.Equal(t, 12, BoundFor(student, intPtr(18)).Age(), "a request may not raise it")

	assert.False(t, BoundFor(teacher, nil).Set())
	assert.Equal(t, 14, BoundFor(teacher, intPtr(14)).Age())
	assert.False(t, BoundFor(nil, nil).Set())
}

func TestJobReportString(t *testing.T) {
	r := JobReport{Job: "cleanup", Seen: 3, Removed: 1, Duration: 1500 * time.Microsecond}
	assert.Equal(t, "cleanup: seen=3 stored=0 skipped=0 removed=1 failed=0 failed_pages=0 in 2ms", r.String())
}
