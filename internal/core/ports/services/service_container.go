package services

// ServiceContainer holds all the services needed by the handlers.
type ServiceContainer struct {
	Account     AccountSvcFacade
	Transaction TransactionSvcFacade
	Summary     SummarySvcFacade
}
