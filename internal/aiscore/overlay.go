package aiscore

import (
	"context"

	"github.com/rizanep/kamcom-bids/internal/models"
)

// Overlay — таблица оценок по нормализованному идентификатору исполнителя.
// Обогащение best-effort: отсутствие оценки — не ошибка, карточка рисует
// нейтральный бейдж "нет данных".
type Overlay struct {
	scores map[models.ID]models.AIMatchScore
}

// EmptyOverlay — оверлей без оценок; все поиски отвечают "нет данных".
func EmptyOverlay() *Overlay {
	return &Overlay{scores: map[models.ID]models.AIMatchScore{}}
}

// BuildOverlay строит таблицу из ответа скоринга.
// Числовая и строковая формы идентификатора схлопываются в один ключ
// ещё при декодировании (models.ID), двойных ключей здесь нет.
func BuildOverlay(matches []models.AIMatchScore) *Overlay {
	o := &Overlay{scores: make(map[models.ID]models.AIMatchScore, len(matches))}
	for _, m := range matches {
		if !m.FreelancerID.IsZero() {
			o.scores[m.FreelancerID] = m
		}
	}
	return o
}

// Load запрашивает оценки для заказа и строит оверлей.
// Любой сбой скоринга деградирует до пустого оверлея и никогда
// не блокирует просмотр и принятие ставок.
func Load(ctx context.Context, client *Client, job JobContext) *Overlay {
	matches, err := client.MatchScores(ctx, job)
	if err != nil {
		client.log.WithField("job_id", job.JobID).Warnf("скоринг недоступен: %v", err)
		return EmptyOverlay()
	}
	return BuildOverlay(matches)
}

// ScoreFor возвращает оценку для ставки или nil, если её нет.
func (o *Overlay) ScoreFor(bid *models.Bid) *models.AIMatchScore {
	id := ResolveFreelancerID(bid)
	if id.IsZero() {
		return nil
	}
	if score, ok := o.scores[id]; ok {
		return &score
	}
	return nil
}

// Len возвращает количество оценок в оверлее.
func (o *Overlay) Len() int {
	return len(o.scores)
}

// ResolveFreelancerID разрешает идентификатор исполнителя по цепочке
// фолбэков: профиль (user id → id) → ставка (user id → freelancer id →
// сырое поле freelancer). Апстрим заполняет эти поля непоследовательно.
func ResolveFreelancerID(bid *models.Bid) models.ID {
	if bid.FreelancerProfile != nil {
		if !bid.FreelancerProfile.UserID.IsZero() {
			return bid.FreelancerProfile.UserID
		}
		if !bid.FreelancerProfile.ID.IsZero() {
			return bid.FreelancerProfile.ID
		}
	}
	if !bid.UserID.IsZero() {
		return bid.UserID
	}
	if !bid.FreelancerID.IsZero() {
		return bid.FreelancerID
	}
	return bid.Freelancer
}
