package payment

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rizanep/kamcom-bids/internal/goroutine"
	"github.com/rizanep/kamcom-bids/internal/models"
	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

// callbackListener — асинхронный обработчик результата платёжного виджета:
// локальный HTTP-эндпоинт, куда виджет отправляет подписанный payload.
// Payload не интерпретируется — подпись проверяет сервис ставок.
type callbackListener struct {
	server  *http.Server
	results chan models.PaymentCallback
	cancels chan string
}

func newCallbackListener(addr string) (*callbackListener, error) {
	l := &callbackListener{
		results: make(chan models.PaymentCallback, 1),
		cancels: make(chan string, 1),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/payment/callback", func(c *gin.Context) {
		var cb models.PaymentCallback
		if err := c.ShouldBindJSON(&cb); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный payload виджета"})
			return
		}
		select {
		case l.results <- cb:
		default:
			// Повторный коллбэк по тому же заказу игнорируем.
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})
	})

	router.GET("/payment/cancel", func(c *gin.Context) {
		select {
		case l.cancels <- c.Query("reason"):
		default:
		}
		c.String(http.StatusOK, "Оплата отменена, окно можно закрыть.")
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось открыть порт для коллбэка виджета")
	}

	l.server = &http.Server{Handler: router}
	goroutine.SafeGo(func() {
		// Порт уже проверен Listen-ом; Serve завершается только закрытием.
		_ = l.server.Serve(ln)
	})

	return l, nil
}

// Wait блокируется до результата виджета, отмены, таймаута или отмены контекста.
func (l *callbackListener) Wait(ctx context.Context, timeout time.Duration) (models.PaymentCallback, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case cb := <-l.results:
		return cb, nil
	case <-l.cancels:
		return models.PaymentCallback{}, apperror.New(apperror.ErrCodeValidation, "оплата отменена в виджете")
	case <-timer.C:
		return models.PaymentCallback{}, apperror.New(apperror.ErrCodeValidation, "не дождались результата оплаты")
	case <-ctx.Done():
		return models.PaymentCallback{}, apperror.Wrap(ctx.Err(), apperror.ErrCodeValidation, "ожидание оплаты прервано")
	}
}

// Shutdown останавливает слушатель коллбэка.
func (l *callbackListener) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = l.server.Shutdown(ctx)
}
