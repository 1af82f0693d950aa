package story

// Seed content for the "Bitcoin-Jagd" adventure. Two branch-defining paths
// (risiko/geduld) split at chapter one and converge before the finale.
// Chapter ch4 is reserved for NFT holders.

const (
	// StartChapterID is where every new progress record begins.
	StartChapterID = "ch1"

	// PathRisiko marks the confrontational branch.
	PathRisiko = "risiko"
	// PathGeduld marks the investigative branch.
	PathGeduld = "geduld"
)

var defaultChapters = []Chapter{
	{
		ID:          "ch1",
		Number:      1,
		Title:       "Der Anruf",
		Description: "Ein anonymer Anruf startet die Bitcoin-Jagd.",
		Content: "Mitternacht in Berlin. Dein Handy klingelt: \"Murat hat den Seed " +
			"versteckt. 21 Bitcoin. Du hast 48 Stunden.\" Dann ist die Leitung tot. " +
			"Auf dem Display erscheint eine Adresse in Kreuzberg.",
		Choices: []Choice{
			{
				Text:            "Geh sofort zum Treffpunkt",
				ReputationDelta: 5,
				Consequence:     "Du schnappst dir die Jacke und rennst los. Keine Zeit für Zweifel.",
				Next:            "ch2",
				PathTag:         PathRisiko,
			},
			{
				Text:            "Warte ab und sammle Informationen",
				ReputationDelta: 2,
				Consequence:     "Du öffnest den Laptop. Wer ruft um Mitternacht wegen 21 Bitcoin an?",
				Next:            "ch3",
				PathTag:         PathGeduld,
			},
		},
	},
	{
		ID:          "ch2",
		Number:      2,
		Title:       "Verfolgungsjagd in Kreuzberg",
		Description: "Jemand war schneller am Treffpunkt.",
		Content: "Der Hinterhof ist leer, bis auf einen umgeworfenen Mülleimer und " +
			"schnelle Schritte auf dem Dach. Eine Gestalt mit deinem Umschlag " +
			"verschwindet über die Brandmauer.",
		PathTag: PathRisiko,
		Choices: []Choice{
			{
				Text:            "Spring über den Zaun und folge ihr",
				ReputationDelta: 3,
				Consequence:     "Du erwischst den Umschlag am Kanalufer. Darin: ein Schließfachschlüssel.",
				Next:            "ch4",
			},
			{
				Text:            "Verstecke dich im Hinterhof",
				ReputationDelta: -2,
				Consequence:     "Die Gestalt entkommt. Aber sie hat etwas verloren: eine Visitenkarte.",
				Next:            "ch5",
			},
		},
	},
	{
		ID:          "ch3",
		Number:      2,
		Title:       "Die Spur im Netz",
		Description: "Die Blockchain vergisst nichts.",
		Content: "Drei Stunden Mempool-Archäologie später hast du sie: eine Transaktion " +
			"über exakt 21 BTC, geparkt auf einer Adresse, die seit 2017 schläft. " +
			"Der Change-Output führt zu einer Börse mit Sitz in Berlin.",
		PathTag: PathGeduld,
		Choices: []Choice{
			{
				Text:            "Folge der Blockchain-Spur",
				ReputationDelta: 4,
				Consequence:     "Die Spur endet bei einem Schließfach-Service am Ostbahnhof.",
				Next:            "ch4",
			},
			{
				Text:            "Kontaktiere den Informanten",
				ReputationDelta: 1,
				Consequence:     "Der Informant nennt dir einen Namen: Aylin. Und eine Warnung.",
				Next:            "ch5",
			},
		},
	},
	{
		ID:          "ch4",
		Number:      3,
		Title:       "Das private Schließfach",
		Description: "Nur für Holder: der Raum hinter dem Stahlgitter.",
		Content: "Der Pförtner mustert dich lange, dann nickt er Richtung Kellertreppe. " +
			"\"Nur Mitglieder.\" Hinter dem Stahlgitter wartet Schließfach 21 — " +
			"und auf dem Deckel klebt ein Zettel mit deinem Namen.",
		Gated: true,
		Choices: []Choice{
			{
				Text:            "Öffne das Schließfach",
				ReputationDelta: 10,
				Consequence:     "Ein Hardware-Wallet und eine Karte mit zwölf von vierundzwanzig Wörtern.",
				Next:            "ch6",
			},
			{
				Text:            "Fotografiere nur den Inhalt",
				ReputationDelta: 3,
				Consequence:     "Du lässt alles liegen. Wer auch immer zusieht, weiß jetzt: du bist vorsichtig.",
				Next:            "ch6",
			},
		},
	},
	{
		ID:          "ch5",
		Number:      3,
		Title:       "Falsche Freunde",
		Description: "Aylin bietet dir einen Deal an.",
		Content: "Aylin wartet im Späti an der Ecke. \"Wir teilen fifty-fifty\", sagt sie " +
			"und schiebt dir einen Zettel mit der halben Seed-Phrase zu. \"Die andere " +
			"Hälfte hat Murat einem Menschen gegeben, dem er vertraut. Dir?\"",
		Choices: []Choice{
			{
				Text:            "Vertraue Aylin",
				ReputationDelta: -5,
				Consequence:     "Der Zettel ist eine Fälschung. Aylin ist weg, dein Vorsprung auch.",
				Next:            "ch6",
			},
			{
				Text:            "Geh allein weiter",
				ReputationDelta: 2,
				Consequence:     "Du lehnst ab. In ihrer Jackentasche klingelt ein zweites Handy.",
				Next:            "ch6",
			},
		},
	},
	{
		ID:          "ch6",
		Number:      4,
		Title:       "Die letzte Transaktion",
		Description: "48 Stunden sind fast um.",
		Content: "Das Wallet liegt vor dir, die Seed-Phrase ist vollständig. 21 Bitcoin, " +
			"einen Tastendruck entfernt. Drüben am Fenster geht ein Laserpointer an " +
			"und wieder aus. Jemand wartet auf deine Entscheidung.",
		Choices: []Choice{
			{
				Text:            "Signiere die Transaktion",
				ReputationDelta: 15,
				Consequence:     "Bestätigt im nächsten Block. Die Jagd ist vorbei — die Geschichte nicht.",
			},
			{
				Text:            "Zerstöre den Seed",
				ReputationDelta: 8,
				Consequence:     "Das Feuerzeug flackert. 21 Bitcoin schlafen für immer. Murat hätte gelacht.",
			},
		},
	},
}

// DefaultCatalog builds the catalog for the Bitcoin-Jagd story line.
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog(defaultChapters, StartChapterID)
}
