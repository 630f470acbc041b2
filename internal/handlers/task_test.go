package handlers_test

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"proflow/internal/handlers"
	"proflow/internal/models"
)

func newTaskEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "proflow.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Client{}, &models.Creator{}, &models.Task{}))

	h := handlers.New(db, nil, zerolog.Nop())
	r := gin.New()
	r.POST("/api/tasks", h.CreateTask)
	r.GET("/api/tasks/:id", h.GetTask)
	r.PUT("/api/tasks/:id", h.UpdateTask)
	return r, db
}

func seedTestClient(t *testing.T, db *gorm.DB) models.Client {
	t.Helper()
	client := models.Client{Name: "Acme"}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func TestCreateTaskAllocatesSequentialSerials(t *testing.T) {
	r, db := newTaskEnv(t)
	client := seedTestClient(t, db)

	w1, resp1 := doJSON(t, r, http.MethodPost, "/api/tasks",
		gin.H{"clientId": client.ID, "projectName": "brochure", "pages": 10, "rate": 2.0}, nil)
	require.Equal(t, http.StatusCreated, w1.Code)
	assert.Equal(t, float64(1), resp1["slNo"])
	assert.Equal(t, float64(20), resp1["total"])

	w2, resp2 := doJSON(t, r, http.MethodPost, "/api/tasks",
		gin.H{"clientId": client.ID, "projectName": "flyer", "pages": 4, "rate": 3.0}, nil)
	require.Equal(t, http.StatusCreated, w2.Code)
	assert.Equal(t, float64(2), resp2["slNo"])
}

func TestUpdateTaskRecomputesTotal(t *testing.T) {
	r, db := newTaskEnv(t)
	client := seedTestClient(t, db)

	_, created := doJSON(t, r, http.MethodPost, "/api/tasks",
		gin.H{"clientId": client.ID, "projectName": "brochure", "pages": 10, "rate": 2.0}, nil)
	id, ok := created["id"].(string)
	require.True(t, ok)

	w, resp := doJSON(t, r, http.MethodPut, "/api/tasks/"+id, gin.H{"pages": 5}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(10), resp["total"])

	var persisted models.Task
	require.NoError(t, db.First(&persisted, "id = ?", id).Error)
	assert.Equal(t, float64(persisted.Pages)*persisted.Rate, persisted.Total)
}

func TestUpdateTaskClearsNotes(t *testing.T) {
	r, db := newTaskEnv(t)
	client := seedTestClient(t, db)

	_, created := doJSON(t, r, http.MethodPost, "/api/tasks",
		gin.H{"clientId": client.ID, "projectName": "brochure", "notes": "rush job"}, nil)
	id, ok := created["id"].(string)
	require.True(t, ok)

	// omitted notes leave the field untouched
	w, _ := doJSON(t, r, http.MethodPut, "/api/tasks/"+id, gin.H{"pages": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var persisted models.Task
	require.NoError(t, db.First(&persisted, "id = ?", id).Error)
	assert.Equal(t, "rush job", persisted.Notes)

	// an explicit empty string clears it
	w, _ = doJSON(t, r, http.MethodPut, "/api/tasks/"+id, gin.H{"notes": ""}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&persisted, "id = ?", id).Error)
	assert.Empty(t, persisted.Notes)
}

func TestCreateTaskSerialsAreUniquePerRecord(t *testing.T) {
	r, db := newTaskEnv(t)
	client := seedTestClient(t, db)

	for i := 0; i < 5; i++ {
		w, _ := doJSON(t, r, http.MethodPost, "/api/tasks",
			gin.H{"clientId": client.ID, "projectName": "batch"}, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	seen := map[int]bool{}
	var tasks []models.Task
	require.NoError(t, db.Find(&tasks).Error)
	require.Len(t, tasks, 5)
	for _, task := range tasks {
		assert.False(t, seen[task.SlNo], "serial %d allocated twice", task.SlNo)
		seen[task.SlNo] = true
	}
}
