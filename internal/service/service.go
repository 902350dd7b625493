package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kddeveloperhub/noteskart/internal/gateway/razorpay"
	"github.com/kddeveloperhub/noteskart/internal/notes"
	"github.com/kddeveloperhub/noteskart/internal/repository"
)

// Фиксированная цена доступа к заметкам: 100 INR в пайсах
const (
	orderAmount   int64 = 100 * 100
	orderCurrency       = "INR"
)

// ErrPaymentRequired возвращается, когда у пользователя нет оплаченного доступа
var ErrPaymentRequired = errors.New("payment required")

// ErrInvalidSignature возвращается при несовпадении подписи подтверждения оплаты
var ErrInvalidSignature = errors.New("invalid payment signature")

// NotesService содержит бизнес-логику: создание заказов, верификация оплаты,
// выдача защищённых файлов и write path entitlement
// Зависит от интерфейсов, а не от конкретных реализаций
type NotesService struct {
	logger      *zap.Logger
	gateway     PaymentGateway
	keySecret   string
	userRepo    repository.UserRepository
	paymentRepo repository.PaymentRepository
	cache       repository.EntitlementCache // nil = кэш выключен
	cacheTTL    time.Duration
	resolver    NoteResolver
	publisher   PaymentEventPublisher // nil = события не публикуются
}

// NewNotesService создаёт новый экземпляр NotesService
// Принимает зависимости как интерфейсы - это позволяет подменять их в тестах
func NewNotesService(
	logger *zap.Logger,
	gateway PaymentGateway,
	keySecret string,
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	cache repository.EntitlementCache,
	cacheTTL time.Duration,
	resolver NoteResolver,
	publisher PaymentEventPublisher,
) *NotesService {
	return &NotesService{
		logger:      logger,
		gateway:     gateway,
		keySecret:   keySecret,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		resolver:    resolver,
		publisher:   publisher,
	}
}

// CreateOrder создаёт заказ в платёжном шлюзе на фиксированную сумму
// Receipt — "receipt_" + миллисекунды, чтобы различать создания
// Локального состояния нет: заказ живёт в шлюзе
func (s *NotesService) CreateOrder(ctx context.Context) (razorpay.Order, error) {
	receipt := fmt.Sprintf("receipt_%d", time.Now().UnixMilli())

	order, err := s.gateway.CreateOrder(ctx, orderAmount, orderCurrency, receipt)
	if err != nil {
		s.logger.Error("order creation failed", zap.Error(err))
		return razorpay.Order{}, fmt.Errorf("payment gateway error: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("receipt", receipt),
	)
	return order, nil
}

// VerifyPaymentInput содержит подтверждение оплаты от клиента
// UserID опционален: с ним после верификации публикуется событие,
// по которому entitlement worker выставит is_paid
type VerifyPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
	UserID    string
}

// VerifyPayment проверяет подпись подтверждения и записывает платёж
// Повторная верификация того же заказа идемпотентна: success без дубликатов
// Возвращает ErrInvalidSignature при несовпадении подписи
func (s *NotesService) VerifyPayment(ctx context.Context, input VerifyPaymentInput) error {
	if !razorpay.VerifySignature(s.keySecret, input.OrderID, input.PaymentID, input.Signature) {
		s.logger.Warn("payment signature mismatch",
			zap.String("order_id", input.OrderID),
			zap.String("payment_id", input.PaymentID),
		)
		return ErrInvalidSignature
	}

	// Идемпотентность: платёж уже записан — отвечаем success, событие не дублируем
	existing, err := s.paymentRepo.GetByOrderID(ctx, input.OrderID)
	if err == nil {
		s.logger.Info("payment already verified",
			zap.String("order_id", existing.OrderID),
			zap.String("payment_id", existing.PaymentID),
		)
		return nil
	}
	if !errors.Is(err, repository.ErrPaymentNotFound) {
		return fmt.Errorf("failed to check existing payment: %w", err)
	}

	payment := repository.Payment{
		OrderID:    input.OrderID,
		PaymentID:  input.PaymentID,
		UserID:     input.UserID,
		VerifiedAt: time.Now().Unix(),
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}

	s.logger.Info("payment verified",
		zap.String("order_id", input.OrderID),
		zap.String("payment_id", input.PaymentID),
		zap.String("user_id", input.UserID),
	)

	// Публикация не валит запрос: подпись сошлась, платёж записан,
	// entitlement можно догнать через admin path
	if s.publisher != nil && input.UserID != "" {
		event := PaymentVerifiedEvent{
			OrderID:   input.OrderID,
			PaymentID: input.PaymentID,
			UserID:    input.UserID,
		}
		if err := s.publisher.PublishPaymentVerified(ctx, event); err != nil {
			s.logger.Error("failed to publish payment verified event",
				zap.Error(err),
				zap.String("order_id", input.OrderID),
				zap.String("user_id", input.UserID),
			)
		}
	}

	return nil
}

// GetNote выдаёт защищённый файл оплатившему пользователю
// Порядок фиксирован: сначала entitlement, потом файл
// Ошибки: repository.ErrUserNotFound, ErrPaymentRequired,
// notes.ErrInvalidFilename, notes.ErrFileNotFound
func (s *NotesService) GetNote(ctx context.Context, filename, userID string) (*notes.Note, error) {
	isPaid, err := s.checkEntitlement(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isPaid {
		return nil, ErrPaymentRequired
	}

	note, err := s.resolver.Resolve(filename)
	if err != nil {
		return nil, err
	}

	s.logger.Info("note released",
		zap.String("user_id", userID),
		zap.String("filename", note.Name),
		zap.Int64("size", note.Size),
	)
	return note, nil
}

// checkEntitlement читает флаг is_paid через кэш
// Кэшируется только положительный entitlement: false и "нет пользователя"
// всегда идут в основное хранилище, чтобы не потерять различие 403/404
func (s *NotesService) checkEntitlement(ctx context.Context, userID string) (bool, error) {
	if s.cache != nil {
		isPaid, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			// Кэш недоступен — деградируем до похода в хранилище
			s.logger.Warn("entitlement cache read failed", zap.Error(err), zap.String("user_id", userID))
		} else if ok && isPaid {
			return true, nil
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, err
		}
		return false, fmt.Errorf("entitlement lookup failed: %w", err)
	}

	if user.IsPaid && s.cache != nil {
		if err := s.cache.Set(ctx, userID, true, s.cacheTTL); err != nil {
			s.logger.Warn("entitlement cache write failed", zap.Error(err), zap.String("user_id", userID))
		}
	}

	return user.IsPaid, nil
}

// MarkPaid выставляет флаг is_paid и обновляет кэш
// Используется entitlement worker-ом и admin endpoint-ом
func (s *NotesService) MarkPaid(ctx context.Context, userID string, isPaid bool) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	if err := s.userRepo.SetPaid(ctx, userID, isPaid); err != nil {
		return fmt.Errorf("failed to set entitlement: %w", err)
	}

	if s.cache != nil {
		var cacheErr error
		if isPaid {
			cacheErr = s.cache.Set(ctx, userID, true, s.cacheTTL)
		} else {
			cacheErr = s.cache.Invalidate(ctx, userID)
		}
		if cacheErr != nil {
			s.logger.Warn("entitlement cache update failed", zap.Error(cacheErr), zap.String("user_id", userID))
		}
	}

	s.logger.Info("entitlement updated",
		zap.String("user_id", userID),
		zap.Bool("is_paid", isPaid),
	)
	return nil
}

// HandlePaymentVerified обрабатывает событие оплаты из Kafka
// Событие без user_id пропускается: entitlement некому выставлять
func (s *NotesService) HandlePaymentVerified(ctx context.Context, event PaymentVerifiedEvent) error {
	if event.UserID == "" {
		s.logger.Warn("payment verified event without user_id, skipping",
			zap.String("order_id", event.OrderID),
		)
		return nil
	}
	return s.MarkPaid(ctx, event.UserID, true)
}
