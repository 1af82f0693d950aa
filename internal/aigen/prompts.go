package aigen

import "fmt"

func systemMessage(contentType ContentType) string {
	switch contentType {
	case ContentTypeMeme:
		return "Du bist ein Meme-Generator. Erstelle lustige, kurze Meme-Texte auf Deutsch mit Bitcoin/Crypto-Bezug."
	case ContentTypeComic:
		return "Du bist ein Comic-Autor. Erstelle kurze, unterhaltsame Comic-Szenen auf Deutsch mit Krypto-Themen."
	case ContentTypeStory:
		return "Du bist ein Storyteller. Erstelle spannende, kurze Geschichten auf Deutsch über Bitcoin und Kryptowährungen."
	case ContentTypeText:
		return "Du bist ein Content-Creator. Erstelle informativen, interessanten Text auf Deutsch über Krypto-Themen."
	default:
		return "Du bist ein hilfreicher Assistent. Erstelle Content auf Deutsch."
	}
}

// fallbackContent is served when no completion client is configured or the
// completion API fails. The request still succeeds with canned content.
func fallbackContent(contentType ContentType, prompt string) string {
	switch contentType {
	case ContentTypeMeme:
		return fmt.Sprintf("🚀 MEME ALERT! 🚀\n\n%q\n\n*Hodler-Modus aktiviert*\n💎🙌 Diamond Hands Forever!\n\n#Bitcoin #KryptoMurat #ToTheMoon", prompt)
	case ContentTypeComic:
		return fmt.Sprintf("🎭 COMIC STRIP 🎭\n\nPanel 1: %q\nPanel 2: \"Aber dann kam der Bitcoin-Crash...\"\nPanel 3: \"HODL! 💎🙌\"\nPanel 4: \"Und sie lebten glücklich bis ans Ende ihrer Tage!\"", prompt)
	case ContentTypeStory:
		return fmt.Sprintf("📖 KRYPTO-GESCHICHTE 📖\n\nEs war einmal in der Welt der Kryptowährungen...\n\n%q\n\nUnd so begann das größte Abenteuer der digitalen Welt. Bitcoin stieg und fiel, aber unsere Helden hielten durch. Am Ende gewannen sie nicht nur Gold, sondern auch Weisheit.\n\nENDE", prompt)
	case ContentTypeText:
		return fmt.Sprintf("📝 KRYPTO-CONTENT 📝\n\nThema: %s\n\nDie Welt der Kryptowährungen ist voller Möglichkeiten. Bitcoin hat den Weg geebnet für eine neue Art des Geldes. Heute erleben wir eine Revolution im Finanzwesen.\n\nKryptoMurat hilft dir dabei, diese Welt zu verstehen und zu navigieren.", prompt)
	default:
		return fmt.Sprintf("Mock content für: %s", prompt)
	}
}
