package repository

import "github.com/davidtimana/supply-AI/internal/domain/entity"

// SubscriptionRepository define el puerto de persistencia para suscripciones.
// GetActiveByOrganization devuelve la suscripción activa (no eliminada) de la
// organización, o nil si no tiene.
type SubscriptionRepository interface {
	Create(subscription *entity.Subscription) error
	GetByID(id string) (*entity.Subscription, error)
	GetActiveByOrganization(organizationID string) (*entity.Subscription, error)
	Update(subscription *entity.Subscription) error
}
