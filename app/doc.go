/*
Package app contains the ABCI application glue.

StoreApp handles the persistence, queries and genesis. BaseApp embeds it and
dispatches CheckTx and DeliverTx to a handler, usually a Router wrapped with a
chain of decorators:

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
    utils.NewSavepoint().OnCheck(),
    sigs.NewDecorator(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(router)
*/
package app
