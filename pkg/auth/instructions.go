package auth

import (
	"fmt"
	"strings"
)

// ShowAccessKeyGuide prints step-by-step instructions for obtaining an
// Unsplash access key
func ShowAccessKeyGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("📚 UNSPLASH ACCESS KEY GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("ScreenPapers searches Unsplash on your behalf and needs an API access key.")
	fmt.Println()

	fmt.Println("🌐 STEP 1: Create a developer account")
	fmt.Println("   - Go to https://unsplash.com/developers")
	fmt.Println("   - Sign in or join, then click 'Your apps'")
	fmt.Println()

	fmt.Println("🧩 STEP 2: Register an application")
	fmt.Println("   - Click 'New Application' and accept the API guidelines")
	fmt.Println("   - Give it any name, e.g. 'screenpapers'")
	fmt.Println()

	fmt.Println("🔑 STEP 3: Copy the key")
	fmt.Println("   ┌─────────────┬──────────────────────────────────────────────┐")
	fmt.Println("   │ Field       │ Use it?                                      │")
	fmt.Println("   ├─────────────┼──────────────────────────────────────────────┤")
	fmt.Println("   │ Access Key  │ Yes, this is the client_id                   │")
	fmt.Println("   │ Secret Key  │ No, never needed here                        │")
	fmt.Println("   └─────────────┴──────────────────────────────────────────────┘")
	fmt.Println()

	fmt.Println("💾 STEP 4: Give it to screenpapers, any one of:")
	fmt.Println("   • screenpapers auth set-key           (stored in keyring or encrypted file)")
	fmt.Println("   • UNSPLASH_ACCESS_KEY=... in a .env file")
	fmt.Println("   • --access-key on the command line")
	fmt.Println()

	fmt.Println("💡 TIPS:")
	fmt.Println("   • Demo apps are limited to 50 requests per hour")
	fmt.Println("   • Each page of results is one request")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickKeyGuide is the one-screen version
func ShowQuickKeyGuide() {
	fmt.Println("\n🔑 Quick Guide: unsplash.com/developers → Your apps → New Application → copy 'Access Key'")
	fmt.Println("   Then run: screenpapers auth set-key")
	fmt.Println("   Use --guide for detailed instructions")
}
