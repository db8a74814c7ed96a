package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	userDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/user"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
)

var defaultCategories = []string{"Food", "Transport", "Housing", "Health", "Leisure", "Other"}

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed default categories, a demo user and two July 2025 expenses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, lg, conn, err := bootstrap()
		if err != nil {
			return err
		}
		defer conn.Close()

		err = conn.Gorm.Transaction(func(tx *gorm.DB) error {
			if clearData {
				if err := clearSeedData(tx); err != nil {
					return err
				}
			}
			return seed(tx)
		})
		if err != nil {
			lg.Error("seeding failed", "error", err)
			return err
		}

		lg.Info("seeding finished", "demo_user", demoEmail)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}

func clearSeedData(tx *gorm.DB) error {
	for _, table := range []string{"expenses", "categories", "users"} {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func seed(tx *gorm.DB) error {
	byName := make(map[string]*categoryDatamodel.Category, len(defaultCategories))
	for _, name := range defaultCategories {
		cat := categoryDatamodel.Category{}
		err := tx.Where("name = ? AND user_id IS NULL", name).
			Attrs(categoryDatamodel.Category{Name: name, IsDefault: true}).
			FirstOrCreate(&cat).Error
		if err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
		byName[name] = &cat
	}

	var demo userDatamodel.User
	err := tx.Where("email = ?", demoEmail).First(&demo).Error
	switch {
	case err == nil:
		// existing demo user keeps its expenses
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("lookup demo user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	demo = userDatamodel.User{Email: demoEmail, PasswordHash: string(hash)}
	if err := tx.Create(&demo).Error; err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}

	day := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	expenses := []expenseDatamodel.Expense{
		{Title: "Lunch", Amount: decimal.RequireFromString("12.50"), Date: day, UserID: demo.ID, CategoryID: byName["Food"].ID},
		{Title: "Bus ticket", Amount: decimal.RequireFromString("7.00"), Date: day, UserID: demo.ID, CategoryID: byName["Transport"].ID},
	}
	if err := tx.Omit("Category").Create(&expenses).Error; err != nil {
		return fmt.Errorf("create demo expenses: %w", err)
	}
	return nil
}
