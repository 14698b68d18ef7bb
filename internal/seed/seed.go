package seed

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bag_shop/internal/hash"
	"github.com/Skotchmaster/bag_shop/internal/models"
	"github.com/Skotchmaster/bag_shop/internal/transport"
	"github.com/Skotchmaster/bag_shop/internal/validation"
)

//go:embed seed.yaml
var defaultData []byte

type Data struct {
	Users []User `yaml:"users"`
	Bags  []Bag  `yaml:"bags"`
}

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type Bag struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category"`
	Image       string  `yaml:"image"`
	Stock       int     `yaml:"stock"`
}

// Indexer is the search index kept in step with the seeded bags.
type Indexer interface {
	Reset(ctx context.Context) error
	IndexBag(ctx context.Context, bag *models.Bag) error
}

type Result struct {
	Users int
	Bags  int
}

func Default() (*Data, error) {
	return Parse(defaultData)
}

// Parse decodes seed YAML and checks every record against the same rules
// the API applies to registrations and bag creation.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("seed: decode yaml: %w", err)
	}

	v := validation.New()
	for i, u := range d.Users {
		req := transport.RegisterRequest{Name: u.Name, Email: u.Email, Password: u.Password}
		req.Normalize()
		if err := v.Validate(&req); err != nil {
			return nil, fmt.Errorf("seed: user %d: %w", i, err)
		}
		if !models.ValidRole(u.Role) {
			return nil, fmt.Errorf("seed: user %d: unknown role %q", i, u.Role)
		}
		d.Users[i].Name, d.Users[i].Email = req.Name, req.Email
	}
	for i, b := range d.Bags {
		req := transport.CreateBagRequest{
			Name:        b.Name,
			Description: b.Description,
			Price:       &b.Price,
			Category:    b.Category,
			Image:       b.Image,
			Stock:       &b.Stock,
		}
		if err := v.Validate(&req); err != nil {
			return nil, fmt.Errorf("seed: bag %d: %w", i, err)
		}
	}
	return &d, nil
}

// Run replaces all users and bags with d in one transaction.
func Run(ctx context.Context, db *gorm.DB, d *Data) (Result, error) {
	users := make([]models.User, 0, len(d.Users))
	for _, u := range d.Users {
		pw, err := hash.HashPassword(u.Password)
		if err != nil {
			return Result{}, fmt.Errorf("seed: hash password for %s: %w", u.Email, err)
		}
		users = append(users, models.User{Name: u.Name, Email: u.Email, PasswordHash: pw, Role: u.Role})
	}

	bags := make([]models.Bag, 0, len(d.Bags))
	for _, b := range d.Bags {
		bags = append(bags, models.Bag{
			Name:        b.Name,
			Description: b.Description,
			Price:       b.Price,
			Category:    b.Category,
			Image:       b.Image,
			Stock:       b.Stock,
		})
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Bag{}).Error; err != nil {
			return fmt.Errorf("clear bags: %w", err)
		}
		if len(users) > 0 {
			if err := tx.Create(&users).Error; err != nil {
				return fmt.Errorf("create users: %w", err)
			}
		}
		if len(bags) > 0 {
			if err := tx.Create(&bags).Error; err != nil {
				return fmt.Errorf("create bags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("seed: %w", err)
	}
	return Result{Users: len(users), Bags: len(bags)}, nil
}

// Reindex drops the search index and indexes every stored bag, so documents
// of bags removed by Run do not linger.
func Reindex(ctx context.Context, db *gorm.DB, idx Indexer) (int, error) {
	var bags []models.Bag
	if err := db.WithContext(ctx).Order("created_at").Find(&bags).Error; err != nil {
		return 0, fmt.Errorf("seed: load bags: %w", err)
	}

	if err := idx.Reset(ctx); err != nil {
		return 0, fmt.Errorf("seed: reset index: %w", err)
	}
	for n := range bags {
		if err := idx.IndexBag(ctx, &bags[n]); err != nil {
			return n, fmt.Errorf("seed: index bag %s: %w", bags[n].ID, err)
		}
	}
	return len(bags), nil
}
