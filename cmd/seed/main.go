package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/employee-management-api/config"
	"github.com/oksasatya/employee-management-api/internal/application"
	"github.com/oksasatya/employee-management-api/internal/container"
	"github.com/oksasatya/employee-management-api/pkg/helpers"
)

// 1x1 transparent PNG used as the demo employees' photo
var demoPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

var demoEmployees = []application.CreateEmployeeInput{
	{Name: "Asha Verma", Email: "asha.verma@example.com", Mobile: "9876500001", Designation: "HR", Gender: "F", Course: []string{"MCA"}},
	{Name: "Rahul Mehta", Email: "rahul.mehta@example.com", Mobile: "9876500002", Designation: "Manager", Gender: "M", Course: []string{"BCA", "MCA"}},
	{Name: "Neha Iyer", Email: "neha.iyer@example.com", Mobile: "9876500003", Designation: "Sales", Gender: "F", Course: []string{"BSC"}},
	{Name: "Vikram Rao", Email: "vikram.rao@example.com", Mobile: "9876500004", Designation: "HR", Gender: "M", Course: []string{"MCA"}},
	{Name: "Priya Nair", Email: "priya.nair@example.com", Mobile: "9876500005", Designation: "Manager", Gender: "F", Course: []string{"BCA"}},
	{Name: "Arjun Das", Email: "arjun.das@example.com", Mobile: "9876500006", Designation: "Sales", Gender: "M", Course: []string{"BSC", "BCA"}},
}

func main() {
	email := flag.String("email", "admin@example.com", "demo user email")
	password := flag.String("password", "password123", "demo user password")
	withEmployees := flag.Bool("employees", true, "also create demo employees")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	cfg.RabbitMQURL = "" // no welcome mail for seeded accounts
	cfg.RateLimitEnabled = false

	ctx := context.Background()
	c := container.New(cfg, helpers.NewLogger(cfg.AppName+"-seed", cfg.Env))
	cleanup, err := c.Connect(ctx)
	defer cleanup()
	if err != nil {
		log.Fatalf("connect: %v", err)
	}

	_, err = c.AuthService().Register(ctx, application.RegisterInput{Name: "Admin", Email: *email, Password: *password})
	switch {
	case errors.Is(err, application.ErrEmailTaken):
		fmt.Printf("user %s already exists\n", *email)
	case err != nil:
		log.Fatalf("seed user: %v", err)
	default:
		fmt.Printf("seeded user: email=%s password=%s\n", *email, *password)
	}

	if !*withEmployees {
		return
	}
	svc := c.EmployeeService()
	for _, in := range demoEmployees {
		img := &application.Image{Filename: "demo.png", ContentType: "image/png", Body: bytes.NewReader(demoPNG)}
		e, err := svc.Create(ctx, in, img)
		if err != nil {
			log.Fatalf("seed employee %s: %v", in.Name, err)
		}
		fmt.Printf("seeded employee: id=%s name=%s\n", e.ID, e.Name)
	}
}
