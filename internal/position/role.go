package position

// SignedQuantity resolves the target wallet's exposure change for one trade:
// +size for a fill that adds long exposure, -size for one that reduces it,
// 0 when the wallet has no resolvable role or the trade carries no size.
//
// The rules apply in strict precedence and the first applicable one wins:
//
//  1. An explicit proxy/account wallet view. When the record names a user,
//     maker/taker/buyer/seller fields on the same record are never consulted,
//     even if the wallet does not match the user at all.
//  2. Buyer/seller fields.
//  3. Maker/taker fields combined with side; side is read as the taker's
//     action, so under buy the taker gains and the maker gives up shares.
func SignedQuantity(n NormalizedTrade, wallet string) float64 {
	if n.Size == nil || *n.Size == 0 {
		return 0
	}
	size := *n.Size

	if n.User != "" {
		if wallet == n.User {
			switch n.Side {
			case "buy", "yes":
				return +size
			case "sell", "no":
				return -size
			}
		}
		return 0
	}

	if n.Buyer != "" || n.Seller != "" {
		if wallet == n.Buyer {
			return +size
		}
		if wallet == n.Seller {
			return -size
		}
		return 0
	}

	if (n.Maker != "" || n.Taker != "") && n.Side != "" {
		switch n.Side {
		case "buy", "yes":
			if wallet == n.Taker {
				return +size
			}
			if wallet == n.Maker {
				return -size
			}
		case "sell", "no":
			if wallet == n.Taker {
				return -size
			}
			if wallet == n.Maker {
				return +size
			}
		}
	}

	return 0
}
