package main

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"studiopromise/internal/database"
	"studiopromise/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "studiopromise.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	// AutoMigrate to ensure schema is up to date
	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.Studio{},
		&domain.User{},
		&domain.Contact{},
		&domain.PricingConfig{},
		&domain.Deal{},
		&domain.Quotation{},
		&domain.QuoteItem{},
		&domain.EventBooking{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM event_bookings")
	db.Exec("DELETE FROM quote_items")
	db.Exec("DELETE FROM quotations")
	db.Exec("DELETE FROM deals")
	db.Exec("DELETE FROM pricing_configs")
	db.Exec("DELETE FROM contacts")
	db.Exec("DELETE FROM users")
	db.Exec("DELETE FROM studios")

	// ================== STUDIO ==================
	log.Println("Creating studio...")
	studio := domain.Studio{
		Slug:            "luz-norte",
		Name:            "Luz del Norte Fotografía",
		DailyEventLimit: 1,
	}
	db.Create(&studio)

	// ================== PRICING CONFIG ==================
	config := domain.PricingConfig{
		StudioID:            studio.ID,
		ServiceMargin:       decimal.NewFromFloat(0.30),
		ProductMargin:       decimal.NewFromFloat(0.25),
		SalesCommissionRate: decimal.NewFromFloat(0.10),
		MarkupRate:          decimal.NewFromFloat(0.15),
		RoundingPolicy:      domain.RoundingMagic,
		MagicRoundingStep:   decimal.NewFromInt(500),
	}
	db.Create(&config)

	// ================== USERS ==================
	log.Println("Creating users...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		StudioID:     studio.ID,
		Email:        "admin@studiopromise.co",
		PasswordHash: string(adminHash),
		Name:         "Admin",
		Role:         domain.RoleAdmin,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@studiopromise.co / admin123")

	staffHash, _ := bcrypt.GenerateFromPassword([]byte("staff123"), bcrypt.DefaultCost)
	staff := domain.User{
		StudioID:     studio.ID,
		Email:        "sales@studiopromise.co",
		PasswordHash: string(staffHash),
		Name:         "Sales Rep",
		Role:         domain.RoleStaff,
	}
	db.Create(&staff)
	log.Println("Staff created: sales@studiopromise.co / staff123")

	// ================== CONTACTS & DEALS ==================
	log.Println("Creating contacts and deals...")
	contacts := []domain.Contact{
		{StudioID: studio.ID, Name: "María Fernanda Ruiz", Email: "mafe.ruiz@example.com", Phone: "+57 310 555 0101"},
		{StudioID: studio.ID, Name: "Carlos Andrés Gómez", Email: "cgomez@example.com", Phone: "+57 310 555 0102"},
		{StudioID: studio.ID, Name: "Laura Jiménez", Email: "laura.j@example.com", Phone: "+57 310 555 0103"},
	}
	for i := range contacts {
		db.Create(&contacts[i])
	}

	eventDate := time.Date(time.Now().Year()+1, time.June, 20, 0, 0, 0, 0, time.UTC)
	stages := []domain.StageSlug{domain.StagePending, domain.StageNegotiation, domain.StageClosing}
	for i, contact := range contacts {
		deal := domain.Deal{
			StudioID:         studio.ID,
			ContactID:        contact.ID,
			PublicToken:      uuid.NewString(),
			CurrentStageSlug: stages[i],
			EventDate:        &eventDate,
		}
		db.Create(&deal)

		quotation := domain.Quotation{
			DealID:      deal.ID,
			Name:        "Paquete boda clásico",
			Status:      domain.QuotationActive,
			BonusAmount: decimal.Zero,
		}
		db.Create(&quotation)

		items := []domain.QuoteItem{
			{QuotationID: quotation.ID, Name: "Cobertura día completo", Category: domain.CategoryService,
				UnitCost: decimal.NewFromInt(2000), UnitExpense: decimal.NewFromInt(400), Quantity: 1},
			{QuotationID: quotation.ID, Name: "Álbum impreso 30x30", Category: domain.CategoryProduct,
				UnitCost: decimal.NewFromInt(350), UnitExpense: decimal.NewFromInt(50), Quantity: 1},
			{QuotationID: quotation.ID, Name: "Sesión pre-boda", Category: domain.CategoryService,
				UnitCost: decimal.NewFromInt(150), UnitExpense: decimal.NewFromInt(30), Quantity: 1, IsCourtesy: true},
		}
		for j := range items {
			db.Create(&items[j])
		}

		log.Printf("Deal %d created for %s (stage=%s, token=%s)", deal.ID, contact.Name, deal.CurrentStageSlug, deal.PublicToken)
	}

	log.Println("Seed complete.")
}
