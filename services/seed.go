package services

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/szymekpro/ztpai-mfs/models"
	"github.com/szymekpro/ztpai-mfs/utils"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Seed is the fixture file layout used by cmd/seed.
type Seed struct {
	Admins []struct {
		Email    string      `yaml:"email"`
		Password string      `yaml:"password"`
		Role     models.Role `yaml:"role"`
	} `yaml:"admins"`
	Gyms []struct {
		Name        string `yaml:"name"`
		City        string `yaml:"city"`
		Address     string `yaml:"address"`
		Description string `yaml:"description"`
		Trainers    []struct {
			FirstName    string   `yaml:"first_name"`
			LastName     string   `yaml:"last_name"`
			Bio          string   `yaml:"bio"`
			Services     []string `yaml:"services"`
			Availability []struct {
				Weekday models.Weekday `yaml:"weekday"`
				Start   string         `yaml:"start"`
				End     string         `yaml:"end"`
			} `yaml:"availability"`
		} `yaml:"trainers"`
	} `yaml:"gyms"`
	Services []struct {
		Name        string  `yaml:"name"`
		Description string  `yaml:"description"`
		Price       float64 `yaml:"price"`
	} `yaml:"services"`
	MembershipTypes []struct {
		Name         string  `yaml:"name"`
		DurationDays int     `yaml:"duration_days"`
		Price        float64 `yaml:"price"`
		Description  string  `yaml:"description"`
	} `yaml:"membership_types"`
}

func LoadSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &seed, nil
}

// ApplySeed inserts the fixtures. Rows are matched by name (email for admins),
// so running it twice leaves the database unchanged.
func ApplySeed(ctx context.Context, db *gorm.DB, seed *Seed) error {
	users := NewUserService(db, NoopNotifier{})
	for _, a := range seed.Admins {
		if _, err := users.FindByEmail(ctx, a.Email); err == nil {
			continue
		}
		role := a.Role
		if role == "" {
			role = models.RoleAdmin
		}
		if _, err := users.CreateWithRole(ctx, a.Email, a.Password, role); err != nil {
			return fmt.Errorf("seed user %s: %w", a.Email, err)
		}
		log.Printf("seed: created %s account %s", role, a.Email)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		services := map[string]models.TrainerService{}
		for _, s := range seed.Services {
			svc := models.TrainerService{Name: s.Name}
			err := tx.Where(models.TrainerService{Name: s.Name}).
				Attrs(models.TrainerService{Description: s.Description, Price: utils.RoundCents(s.Price)}).
				FirstOrCreate(&svc).Error
			if err != nil {
				return fmt.Errorf("seed service %s: %w", s.Name, err)
			}
			services[s.Name] = svc
		}

		for _, m := range seed.MembershipTypes {
			if m.DurationDays <= 0 {
				return fmt.Errorf("seed membership type %s: duration must be positive", m.Name)
			}
			var mt models.MembershipType
			err := tx.Where(models.MembershipType{Name: m.Name}).
				Attrs(models.MembershipType{DurationDays: m.DurationDays, Price: utils.RoundCents(m.Price), Description: m.Description}).
				FirstOrCreate(&mt).Error
			if err != nil {
				return fmt.Errorf("seed membership type %s: %w", m.Name, err)
			}
		}

		for _, g := range seed.Gyms {
			if !utils.HasStreetNumber(g.Address) {
				return fmt.Errorf("seed gym %s: address must contain a street number", g.Name)
			}
			var gym models.Gym
			err := tx.Where(models.Gym{Name: g.Name, City: g.City}).
				Attrs(models.Gym{Address: g.Address, Description: g.Description}).
				FirstOrCreate(&gym).Error
			if err != nil {
				return fmt.Errorf("seed gym %s: %w", g.Name, err)
			}
			for _, tr := range g.Trainers {
				var trainer models.Trainer
				var count int64
				q := tx.Model(&models.Trainer{}).Where("gym_id = ? AND first_name = ? AND last_name = ?", gym.ID, tr.FirstName, tr.LastName)
				if err := q.Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					continue
				}
				trainer = models.Trainer{GymID: gym.ID, FirstName: tr.FirstName, LastName: tr.LastName, Bio: tr.Bio}
				for _, name := range tr.Services {
					svc, ok := services[name]
					if !ok {
						return fmt.Errorf("seed trainer %s: unknown service %q", trainer.FullName(), name)
					}
					trainer.Services = append(trainer.Services, svc)
				}
				for _, a := range tr.Availability {
					if !a.Weekday.Valid() {
						return fmt.Errorf("seed trainer %s: invalid weekday %q", trainer.FullName(), a.Weekday)
					}
					start, err1 := utils.ParseClock(a.Start)
					end, err2 := utils.ParseClock(a.End)
					if err1 != nil || err2 != nil || start >= end {
						return fmt.Errorf("seed trainer %s: bad hours %s-%s", trainer.FullName(), a.Start, a.End)
					}
					trainer.Availabilities = append(trainer.Availabilities, models.TrainerAvailability{
						Weekday: a.Weekday, StartTime: a.Start, EndTime: a.End,
					})
				}
				if err := tx.Create(&trainer).Error; err != nil {
					return fmt.Errorf("seed trainer %s: %w", trainer.FullName(), err)
				}
			}
		}
		return nil
	})
}
