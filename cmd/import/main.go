// Command import loads customers from a CSV file into one user's account.
//
//	import -owner <userId> customers.csv
//
// The first row names the columns. name and email are required; phone,
// totalSpent, visits, lastActiveAt and status are optional.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ArowuTest/customerconnect-backend/internal/config"
	"github.com/ArowuTest/customerconnect-backend/internal/logger"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	mongorepo "github.com/ArowuTest/customerconnect-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/customerconnect-backend/internal/services"
	mongodb "github.com/ArowuTest/customerconnect-backend/pkg/mongodb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func main() {
	ownerHex := flag.String("owner", "", "id of the user that will own the imported customers")
	flag.Parse()

	log := logger.GetLogger("import")
	if *ownerHex == "" || flag.NArg() != 1 {
		log.Fatal("usage: import -owner <userId> <file.csv>")
	}
	ownerID, err := primitive.ObjectIDFromHex(*ownerHex)
	if err != nil {
		log.Fatalf("Invalid owner id %q", *ownerHex)
	}

	file, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reqs, skipped, err := readCustomers(file, log)
	if err != nil {
		log.Fatalf("Failed to parse CSV file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	store := mongorepo.NewStore(client.Database(cfg.MongoDB.Database))
	customers := services.NewCustomerService(store.Customers, log)

	inserted, err := customers.Import(ctx, ownerID, reqs)
	if err != nil {
		log.Fatalf("Failed to import customers: %v", err)
	}

	log.WithFields(logrus.Fields{
		"rows":     len(reqs) + skipped,
		"inserted": inserted,
		"skipped":  len(reqs) + skipped - inserted,
	}).Info("Import finished")
}

// readCustomers parses rows by header name. Rows whose numeric or date cells
// cannot be parsed are skipped and counted.
func readCustomers(r io.Reader, log *logrus.Logger) ([]*models.CreateCustomerRequest, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("CSV file is empty")
		}
		return nil, 0, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "email"} {
		if _, ok := cols[required]; !ok {
			return nil, 0, fmt.Errorf("missing %q column", required)
		}
	}

	var (
		out     []*models.CreateCustomerRequest
		skipped int
		line    = 1
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, 0, err
		}

		cell := func(name string) string {
			i, ok := cols[strings.ToLower(name)]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		req := &models.CreateCustomerRequest{
			Name:   cell("name"),
			Email:  cell("email"),
			Phone:  cell("phone"),
			Status: models.CustomerStatus(strings.ToLower(cell("status"))),
		}
		if v := cell("totalSpent"); v != "" {
			if req.TotalSpent, err = cast.ToFloat64E(v); err != nil {
				log.Warnf("Line %d: invalid totalSpent %q, skipping", line, v)
				skipped++
				continue
			}
		}
		if v := cell("visits"); v != "" {
			if req.Visits, err = cast.ToIntE(v); err != nil {
				log.Warnf("Line %d: invalid visits %q, skipping", line, v)
				skipped++
				continue
			}
		}
		if v := cell("lastActiveAt"); v != "" {
			t, err := cast.ToTimeE(v)
			if err != nil {
				log.Warnf("Line %d: invalid lastActiveAt %q, skipping", line, v)
				skipped++
				continue
			}
			req.LastActiveAt = &t
		}
		out = append(out, req)
	}
	return out, skipped, nil
}
