package types

import "fmt"

const (
	// ModuleName is the codespace for blackjack errors and the tx type prefix.
	ModuleName = "blackjack"

	// BankModule owns balance queries on the host chain.
	BankModule = "bank"
)

// Tx types routed by the host chain.
const (
	TxTypeStart  = ModuleName + "/start"
	TxTypeHit    = ModuleName + "/hit"
	TxTypeStand  = ModuleName + "/stand"
	TxTypeRedeem = ModuleName + "/redeem"
	TxTypeFund   = ModuleName + "/fund"
)

// GameStatePath is the ABCI query path of a player's game record:
// /blackjack/<contract>/game/<player>.
func GameStatePath(contract, player string) string {
	return fmt.Sprintf("/%s/%s/game/%s", ModuleName, contract, player)
}

// BalancePath is the ABCI query path of a player's balance in one asset:
// /bank/balance/<player>/<asset>.
func BalancePath(player, asset string) string {
	return fmt.Sprintf("/%s/balance/%s/%s", BankModule, player, asset)
}
