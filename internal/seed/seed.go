// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"aperture/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPhotos   int
	ShouldClean bool
}

// SeedPassword is the plaintext password every seeded account gets.
const SeedPassword = "Password123!"

var cameraTypes = []string{
	"Canon EOS R5", "Nikon D850", "Fujifilm X-T5", "Leica M6",
	"Sony A7 IV", "Hasselblad 500C/M", "Pentax K1000", "smartphone",
	models.DefaultCameraType,
}

// Seeder populates the database with demo data.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Seeder{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll wipes every seeded table and resets identities.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE reactions, comments, photos, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d photos...", opts.NumUsers, opts.NumPhotos)

	s := NewSeeder(db)
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	photos, err := s.SeedGallery(users, opts.NumPhotos)
	if err != nil {
		return fmt.Errorf("failed to create photos: %w", err)
	}
	log.Printf("✓ %d photos created", len(photos))

	if err := s.SeedEngagement(users, photos); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// SeedUsers creates n accounts, all sharing SeedPassword.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := s.uniqueUsername(i)
		user := &models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@example.com", strings.ToLower(username)),
			Password: string(hashed),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedGallery creates n photos spread across the given users.
func (s *Seeder) SeedGallery(users []*models.User, n int) ([]*models.Photo, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attach photos to")
	}

	photos := make([]*models.Photo, 0, n)
	for i := 0; i < n; i++ {
		owner := users[s.rng.Intn(len(users))]
		photo := s.BuildPhoto(owner)
		if err := s.db.Create(photo).Error; err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, nil
}

// BuildPhoto constructs a plausible photo for the given owner without
// persisting it.
func (s *Seeder) BuildPhoto(owner *models.User) *models.Photo {
	key := gofakeit.UUID()
	photo := &models.Photo{
		Title:      strings.TrimSuffix(gofakeit.Sentence(4), "."),
		ImageURL:   fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", key),
		StorageID:  fmt.Sprintf("photos/%s.jpg", key),
		CameraType: cameraTypes[s.rng.Intn(len(cameraTypes))],
		TakenAt:    s.randomCaptureDate(),
		UserID:     owner.ID,
	}

	// realistic created_at spread over the last 90 days
	daysBack := s.rng.Intn(90)
	hoursBack := s.rng.Intn(24)
	photo.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
	return photo
}

// SeedEngagement scatters reactions and comments across the gallery.
func (s *Seeder) SeedEngagement(users []*models.User, photos []*models.Photo) error {
	reactionCount := 0
	commentCount := 0

	for _, photo := range photos {
		for _, user := range users {
			// roughly a third of users react to any given photo
			if s.rng.Intn(3) != 0 {
				continue
			}
			kind := models.ReactionLike
			if s.rng.Intn(4) == 0 {
				kind = models.ReactionDislike
			}
			reaction := &models.Reaction{
				PhotoID: photo.ID,
				UserID:  user.ID,
				Kind:    kind,
			}
			if err := s.db.Create(reaction).Error; err != nil {
				return err
			}
			reactionCount++
		}

		var parentID *uint
		for i := 0; i < s.rng.Intn(5); i++ {
			commenter := users[s.rng.Intn(len(users))]
			comment := &models.Comment{
				Content:  gofakeit.Sentence(s.rng.Intn(12) + 3),
				UserID:   commenter.ID,
				PhotoID:  photo.ID,
				ParentID: parentID,
			}
			if err := s.db.Create(comment).Error; err != nil {
				return err
			}
			commentCount++
			// every other comment threads under the previous one
			if s.rng.Intn(2) == 0 {
				id := comment.ID
				parentID = &id
			} else {
				parentID = nil
			}
		}
	}

	log.Printf("✓ %d reactions and %d comments created", reactionCount, commentCount)
	return nil
}

// uniqueUsername generates a username that satisfies the registration rules
// and cannot collide within a single run.
func (s *Seeder) uniqueUsername(i int) string {
	base := strings.ToLower(gofakeit.Username())
	if len(base) > 20 {
		base = base[:20]
	}
	base = strings.Trim(base, "_-")
	if len(base) < 3 {
		base = "shutterbug"
	}
	return fmt.Sprintf("%s%d", base, i)
}

// randomCaptureDate returns an ISO capture date within the last 40 years.
func (s *Seeder) randomCaptureDate() string {
	daysBack := s.rng.Intn(40 * 365)
	return time.Now().AddDate(0, 0, -daysBack).Format("2006-01-02")
}
