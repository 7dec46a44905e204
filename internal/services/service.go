package services

import (
	"playlater/config"
	"playlater/internal/database"
)

type Service struct {
	Cognito     *CognitoService
	Transaction *TransactionService
	Scheduler   *SchedulerService
}

func New(db database.DB, config config.Config) (Service, error) {
	transactionService := NewTransactionService(db)

	cognitoService, err := NewCognitoService(config)
	if err != nil {
		return Service{}, err
	}

	schedulerService := NewSchedulerService()

	return Service{
		Cognito:     cognitoService,
		Transaction: transactionService,
		Scheduler:   schedulerService,
	}, nil
}
