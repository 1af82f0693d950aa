package metaverse

var defaultListings = []NFTListing{
	{
		ID:       "meme_nft_1",
		Name:     "Crypto Meme #1",
		Price:    250,
		ImageURL: "https://cdn.kryptomurat.de/nfts/meme_1.png",
	},
	{
		ID:       "meme_nft_2",
		Name:     "Crypto Meme #2",
		Price:    150,
		ImageURL: "https://cdn.kryptomurat.de/nfts/meme_2.png",
	},
	{
		ID:       "meme_nft_3",
		Name:     "Bitcoin Jagd NFT",
		Price:    500,
		ImageURL: "https://cdn.kryptomurat.de/nfts/bitcoin_jagd.png",
	},
}

var defaultWorld = World{
	WorldName: "KryptoMurat Metaverse",
	Areas: []Area{
		{
			ID:          "live_stream",
			Name:        "Live Stream Arena",
			Description: "Zentrale Streaming-Bühne",
			Position:    Position{X: 0, Y: 0},
			AccessLevel: "public",
		},
		{
			ID:          "nft_gallery",
			Name:        "NFT Gallery",
			Description: "Exklusive NFT-Sammlung",
			Position:    Position{X: -200, Y: 0},
			AccessLevel: "nft_required",
		},
		{
			ID:          "voting_chamber",
			Name:        "Voting Chamber",
			Description: "Community-Governance",
			Position:    Position{X: -200, Y: -100},
			AccessLevel: "public",
		},
		{
			ID:          "airdrop_zone",
			Name:        "Airdrop Zone",
			Description: "MURAT Token Belohnungen",
			Position:    Position{X: 200, Y: 0},
			AccessLevel: "public",
		},
		{
			ID:          "vip_lounge",
			Name:        "VIP Lounge",
			Description: "Exklusiver VIP-Bereich",
			Position:    Position{X: 200, Y: -100},
			AccessLevel: "premium",
		},
	},
}
