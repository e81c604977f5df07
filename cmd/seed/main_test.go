package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carlot/internal/model"
)

type recordingCarRepository struct {
	created []model.Car
	failOn  string
}

func (r *recordingCarRepository) ListActive(ctx context.Context) ([]model.Car, error) {
	return r.created, nil
}

func (r *recordingCarRepository) Create(ctx context.Context, car *model.Car) error {
	if car.Make == r.failOn {
		return errors.New("insert failed")
	}
	r.created = append(r.created, *car)
	return nil
}

func (r *recordingCarRepository) SoftDelete(ctx context.Context, id uint) (int64, error) {
	return 0, nil
}

func (r *recordingCarRepository) Update(ctx context.Context, id uint, carMake, carModel string, year int) (int64, error) {
	return 0, nil
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"make":"Honda","model":"Civic","year":2020}]`), 0o600))

	cars, err := loadSeedFile(path)

	require.NoError(t, err)
	assert.Equal(t, []SeedCar{{Make: "Honda", Model: "Civic", Year: 2020}}, cars)
}

func TestLoadSeedFile_Errors(t *testing.T) {
	_, err := loadSeedFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	_, err = loadSeedFile(path)
	assert.Error(t, err)
}

func TestSeedCars(t *testing.T) {
	repo := &recordingCarRepository{}

	seeded, skipped, err := seedCars(context.Background(), repo, []SeedCar{
		{Make: "Honda", Model: "Civic", Year: 2020},
		{Make: "", Model: "Ghost", Year: 2001},
		{Make: "Ford", Model: "Focus", Year: 0},
		{Make: "Toyota", Model: "Corolla", Year: 2018},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, seeded)
	assert.Equal(t, 2, skipped)
	require.Len(t, repo.created, 2)
	assert.Equal(t, "Toyota", repo.created[1].Make)
}

func TestSeedCars_StopsOnInsertError(t *testing.T) {
	repo := &recordingCarRepository{failOn: "Ford"}

	seeded, _, err := seedCars(context.Background(), repo, defaultCars)

	assert.Error(t, err)
	assert.Equal(t, 2, seeded)
}
