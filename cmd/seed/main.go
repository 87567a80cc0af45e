package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"tutorhub/internal/config"
	"tutorhub/internal/database"
	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

// Seeds a development database with a handful of tutors, students,
// schedules and bookings. Destructive: wipes existing rows first.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM payment_sessions")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM schedules")
	db.Exec("DELETE FROM tutors")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	tutorRepo := repository.NewTutorRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	log.Println("Creating tutors...")
	tutorData := []struct {
		name     string
		email    string
		subjects string
		style    string
	}{
		{"Budi Santoso", "budi@tutorhub.id", "Mathematics, Physics", "Structured and patient"},
		{"Siti Rahma", "siti@tutorhub.id", "English, Literature", "Conversational and relaxed"},
		{"Andi Wijaya", "andi@tutorhub.id", "Chemistry, Biology", "Hands-on with lots of examples"},
	}

	tutors := make([]*domain.Tutor, 0, len(tutorData))
	for _, td := range tutorData {
		hash, _ := bcrypt.GenerateFromPassword([]byte("tutor123"), bcrypt.DefaultCost)
		u := &domain.User{
			FullName:     td.name,
			Email:        td.email,
			PasswordHash: string(hash),
			Role:         domain.RoleTutor,
		}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatal("seed tutor user: ", err)
		}

		t := &domain.Tutor{
			UserID:   u.ID,
			Subjects: td.subjects,
			Style:    td.style,
			PhotoURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", td.email),
		}
		if err := tutorRepo.Create(ctx, t); err != nil {
			log.Fatal("seed tutor profile: ", err)
		}
		tutors = append(tutors, t)
	}

	log.Println("Creating students...")
	students := make([]*domain.User, 0, 2)
	for i, email := range []string{"rina@student.id", "joko@student.id"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.DefaultCost)
		u := &domain.User{
			FullName:     fmt.Sprintf("Student %d", i+1),
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleStudent,
		}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatal("seed student: ", err)
		}
		students = append(students, u)
	}

	log.Println("Creating schedules...")
	schedules := make([]*domain.Schedule, 0, len(tutors)*2)
	for i, t := range tutors {
		for j := 0; j < 2; j++ {
			s := &domain.Schedule{
				TutorID: t.ID,
				Date:    time.Now().AddDate(0, 0, 3+i*2+j),
				Time:    fmt.Sprintf("%02d:00-%02d:00", 9+j*4, 11+j*4),
				Fee:     75000 + int64(i)*25000,
			}
			if err := scheduleRepo.Create(ctx, s); err != nil {
				log.Fatal("seed schedule: ", err)
			}
			schedules = append(schedules, s)
		}
	}

	log.Println("Creating bookings...")
	b1 := &domain.Booking{
		StudentID:     students[0].ID,
		ScheduleID:    schedules[0].ID,
		BookingStatus: domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
	}
	if err := bookingRepo.Create(ctx, b1); err != nil {
		log.Fatal("seed booking: ", err)
	}

	b2 := &domain.Booking{
		StudentID:     students[1].ID,
		ScheduleID:    schedules[2].ID,
		BookingStatus: domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
	}
	if err := bookingRepo.Create(ctx, b2); err != nil {
		log.Fatal("seed booking: ", err)
	}
	if _, err := bookingRepo.UpdateStatusIfPending(ctx, b2.ID, domain.BookingApproved, nil); err != nil {
		log.Fatal("seed booking approval: ", err)
	}

	log.Println("Seed completed!")
	log.Println("Tutors: budi@tutorhub.id, siti@tutorhub.id, andi@tutorhub.id / tutor123")
	log.Println("Students: rina@student.id, joko@student.id / student123")
}
