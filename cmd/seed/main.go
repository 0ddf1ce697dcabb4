// Command seed loads reference data (departments, doctors, the lab-test
// catalog, and an optional admin account) from a JSON fixture into the
// document store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/huzaifaahmed2004/care-coord/cmd/mainconfig"
	"github.com/huzaifaahmed2004/care-coord/internal/auth"
	appconfig "github.com/huzaifaahmed2004/care-coord/internal/config"
	"github.com/huzaifaahmed2004/care-coord/internal/departments"
	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/internal/labtests"
	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

type fixture struct {
	Departments []struct {
		Name          string  `json:"name"`
		Description   string  `json:"description"`
		FeePercentage float64 `json:"feePercentage"`
	} `json:"departments"`
	Doctors []struct {
		Name          string  `json:"name"`
		Email         string  `json:"email"`
		Department    string  `json:"department"`
		Specialty     string  `json:"specialty"`
		FeePercentage float64 `json:"feePercentage"`
	} `json:"doctors"`
	LabTests []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Price       int    `json:"price"`
	} `json:"labTests"`
	Admin *struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	} `json:"admin"`
}

func main() {
	_ = godotenv.Load()
	file := flag.String("file", "seed.json", "path to the seed fixture")
	flag.Parse()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("failed to read fixture", "file", *file, "error", err)
		os.Exit(1)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		logger.Error("failed to parse fixture", "file", *file, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	dynamoClient := dynamodb.NewFromConfig(awsCfg)

	departmentStore := departments.NewStore(dynamoClient, cfg.DepartmentsTable, logger)
	doctorStore := doctors.NewStore(dynamoClient, cfg.DoctorsTable, logger)
	catalog := labtests.NewCatalog(dynamoClient, cfg.AvailableLabTestsTable)
	userStore := auth.NewStore(dynamoClient, cfg.UsersTable, logger)

	// Departments first; doctors reference them by name.
	departmentIDs := make(map[string]string, len(fx.Departments))
	for _, d := range fx.Departments {
		created, err := departmentStore.Create(ctx, &departments.UpsertRequest{
			Name:          d.Name,
			Description:   d.Description,
			FeePercentage: d.FeePercentage,
		})
		if err != nil {
			logger.Error("failed to seed department", "name", d.Name, "error", err)
			os.Exit(1)
		}
		departmentIDs[d.Name] = created.ID
		logger.Info("seeded department", "id", created.ID, "name", d.Name)
	}

	for _, d := range fx.Doctors {
		deptID, ok := departmentIDs[d.Department]
		if !ok {
			logger.Error("doctor references unknown department", "doctor", d.Name, "department", d.Department)
			os.Exit(1)
		}
		created, err := doctorStore.Create(ctx, &doctors.UpsertRequest{
			Name:          d.Name,
			Email:         d.Email,
			DepartmentID:  deptID,
			Specialty:     d.Specialty,
			FeePercentage: d.FeePercentage,
			Available:     true,
		})
		if err != nil {
			logger.Error("failed to seed doctor", "name", d.Name, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded doctor", "id", created.ID, "name", d.Name)
	}

	for _, t := range fx.LabTests {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if err := catalog.Put(ctx, &labtests.Test{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Price:       t.Price,
		}); err != nil {
			logger.Error("failed to seed lab test", "name", t.Name, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded lab test", "id", t.ID, "name", t.Name)
	}

	if fx.Admin != nil {
		u, err := userStore.Create(ctx, fx.Admin.Email, fx.Admin.Name, fx.Admin.Password, string(session.RoleAdmin))
		if err != nil {
			logger.Error("failed to seed admin account", "email", fx.Admin.Email, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded admin account", "id", u.ID, "email", u.Email)
	}

	logger.Info("seed complete",
		"departments", len(fx.Departments),
		"doctors", len(fx.Doctors),
		"lab_tests", len(fx.LabTests),
	)
}
