package geoguessr

var accountUserPaths = []string{"props.accountProps.account.user", "props.pageProps.user"}

func playerFrom(obj map[string]any) Player {
	if obj == nil {
		return Player{}
	}
	return Player{
		ID:          playerIDField.ptr(obj),
		DisplayName: playerNameField.ptr(obj),
		CountryCode: playerCountryField.ptr(obj),
		Email:       playerEmailField.ptr(obj),
	}
}

func accountPlayer(state RawState) Player {
	user, _ := firstObject(map[string]any(state), accountUserPaths...)
	return playerFrom(user)
}

// mergePlayer keeps every field already known from the game and fills the
// gaps from the signed-in account.
func mergePlayer(game, account Player) Player {
	pick := func(a, b *string) *string {
		if a != nil {
			return a
		}
		return b
	}
	return Player{
		ID:          pick(game.ID, account.ID),
		DisplayName: pick(game.DisplayName, account.DisplayName),
		CountryCode: pick(game.CountryCode, account.CountryCode),
		Email:       pick(game.Email, account.Email),
	}
}
