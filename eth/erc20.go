package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// The subset of the ERC-20 ABI the gateway needs: balance queries,
// transfers and the Transfer event used by reconciliation scans.
const erc20ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],
	 "name":"balanceOf","outputs":[{"name":"","type":"uint256"}],
	 "type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},
	 {"name":"value","type":"uint256"}],
	 "name":"transfer","outputs":[{"name":"","type":"bool"}],
	 "type":"function"},
	{"anonymous":false,"inputs":[
	 {"indexed":true,"name":"from","type":"address"},
	 {"indexed":true,"name":"to","type":"address"},
	 {"indexed":false,"name":"value","type":"uint256"}],
	 "name":"Transfer","type":"event"}
]`

func parseERC20ABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(erc20ABI))
}
