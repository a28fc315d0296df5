package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"pickupapp/internal/config"
	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/repositories/memory"
	"pickupapp/internal/validators"
	"pickupapp/pkg/cache"
	"pickupapp/pkg/logger"
	"pickupapp/pkg/websocket"
)

type recordingPusher struct {
	mu       sync.Mutex
	messages map[primitive.ObjectID][]websocket.Message
}

func newRecordingPusher() *recordingPusher {
	return &recordingPusher{messages: make(map[primitive.ObjectID][]websocket.Message)}
}

func (p *recordingPusher) SendToRecipient(recipientID primitive.ObjectID, message websocket.Message) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages[recipientID] = append(p.messages[recipientID], message)
	return 1
}

func (p *recordingPusher) count(recipientID primitive.ObjectID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages[recipientID])
}

type fixture struct {
	ctx context.Context

	users         interfaces.UserRepository
	drivers       interfaces.DriverRepository
	portfolios    interfaces.PortfolioRepository
	availability  interfaces.AvailabilityRepository
	tours         interfaces.TourRepository
	bookings      interfaces.BookingRepository
	pickups       interfaces.PickupRepository
	ratings       interfaces.RatingRepository
	notifications interfaces.NotificationRepository
	discounts     interfaces.DiscountRepository

	pusher   *recordingPusher
	security *config.SecurityConfig

	identity      IdentityService
	notifier      NotificationService
	accounts      AccountService
	tourService   TourService
	bookingSvc    BookingService
	pickupSvc     PickupService
	ratingSvc     RatingService
	discountSvc   DiscountService
	mediaProvider *memoryStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	log := logger.NewNopLogger()

	f := &fixture{
		ctx:           context.Background(),
		users:         memory.NewUserRepository(store),
		drivers:       memory.NewDriverRepository(store),
		portfolios:    memory.NewPortfolioRepository(store),
		availability:  memory.NewAvailabilityRepository(store),
		tours:         memory.NewTourRepository(store),
		bookings:      memory.NewBookingRepository(store),
		pickups:       memory.NewPickupRepository(store),
		ratings:       memory.NewRatingRepository(store),
		notifications: memory.NewNotificationRepository(store),
		discounts:     memory.NewDiscountRepository(store),
		pusher:        newRecordingPusher(),
		mediaProvider: newMemoryStorage(),
		security: &config.SecurityConfig{
			JWTSecret:         "test-secret",
			JWTAccessTokenTTL: time.Hour,
			BcryptCost:        bcrypt.MinCost,
			PasswordMinLength: 6,
			MaxLoginAttempts:  0,
			LoginLockoutTime:  time.Minute,
		},
	}

	f.identity = NewIdentityService(f.users, f.drivers, cache.NopCache{}, f.security, log)
	f.notifier = NewNotificationService(f.notifications, f.users, f.drivers, f.pusher, nil, 20, log)
	media := NewMediaService(f.mediaProvider, &config.StorageConfig{
		MaxImageWidth:  512,
		MaxImageHeight: 512,
		MaxImageBytes:  1 << 20,
	}, log)
	f.accounts = NewAccountService(f.users, f.drivers, f.portfolios, f.availability, f.tours, f.bookings, media, AccountServiceConfig{}, log)
	f.tourService = NewTourService(f.tours, f.bookings, f.drivers, f.portfolios, 100, log)
	f.bookingSvc = NewBookingService(f.bookings, f.tours, f.users, f.drivers, f.portfolios, f.ratings, f.notifier,
		BookingServiceConfig{UserListLimit: 100, DriverBookingsLimit: 500}, log)
	f.pickupSvc = NewPickupService(f.pickups, f.users, f.drivers, f.notifier, 100, log)
	f.ratingSvc = NewRatingService(f.ratings, f.bookings, f.tours, f.drivers, f.notifier, log)
	f.discountSvc = NewDiscountService(f.discounts, 100, log)

	return f
}

func (f *fixture) registerUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := f.identity.RegisterUser(f.ctx, &validators.RegisterUserRequest{
		Email:    email,
		FullName: "Passenger " + email,
		Phone:    "+15550000001",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("RegisterUser(%s): %v", email, err)
	}
	return user
}

func (f *fixture) registerDriver(t *testing.T, email string) *models.Driver {
	t.Helper()
	driver, err := f.identity.RegisterDriver(f.ctx, &validators.RegisterDriverRequest{
		Email:         email,
		FullName:      "Driver " + email,
		Phone:         "+15550000002",
		CarType:       "SUV",
		LicenseNumber: "LIC-1",
		WorkingArea:   "Tbilisi",
		Password:      "secret123",
	})
	if err != nil {
		t.Fatalf("RegisterDriver(%s): %v", email, err)
	}
	return driver
}

func (f *fixture) createTour(t *testing.T, driverID primitive.ObjectID, from, to string, capacity int, price float64) *models.TourWithDriver {
	t.Helper()
	tour, err := f.tourService.CreateTour(f.ctx, driverID, &validators.CreateTourRequest{
		FromLocation:   from,
		ToLocation:     to,
		DepartureTime:  time.Now().Add(48 * time.Hour).UTC(),
		MaxCapacity:    capacity,
		PricePerPerson: price,
	})
	if err != nil {
		t.Fatalf("CreateTour: %v", err)
	}
	return tour
}

func (f *fixture) book(t *testing.T, userID, tourID primitive.ObjectID, people int, payment string) *models.Booking {
	t.Helper()
	booking, err := f.bookingSvc.CreateBooking(f.ctx, userID, &validators.CreateBookingRequest{
		TourID:         tourID.Hex(),
		NumberOfPeople: people,
		TotalPrice:     float64(people) * 50,
		PaymentType:    payment,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	return booking
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}
