package main

import (
	"fmt"
	"math/rand"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sakthi-vetrivel/tichu-bot/internal/domain"
)

var handCmd = &cobra.Command{
	Use:   "hand",
	Short: "Deal a sample hand and list everything it can play",
	Long: `Hand shuffles a deck with the given seed, deals one 14-card hand and
prints every combination the hand can legally form, grouped by category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetInt64("seed")

		deck := domain.ShuffleDeck(domain.NewDeck(), rand.New(rand.NewSource(seed)))
		hand := domain.Sorted(deck[:14])

		fmt.Printf("%s ", color.CyanString("Hand:"))
		for i, c := range hand {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(renderCard(c))
		}
		fmt.Println()
		fmt.Println()

		combos := domain.GenerateAllCombinations(hand)
		byCategory := make(map[domain.HandCategory][]domain.Combination)
		for _, combo := range combos {
			byCategory[combo.Category] = append(byCategory[combo.Category], combo)
		}

		order := []domain.HandCategory{
			domain.Single,
			domain.Pair,
			domain.ThreeOfAKind,
			domain.FullHouse,
			domain.Straight,
			domain.Stairs,
			domain.FourOfAKindBomb,
			domain.StraightFlushBomb,
		}
		for _, cat := range order {
			group := byCategory[cat]
			if len(group) == 0 {
				continue
			}
			fmt.Printf("%s (%d)\n", color.HiWhiteString(cat.String()), len(group))
			for _, combo := range group {
				fmt.Print("  ")
				for i, c := range combo.Cards {
					if i > 0 {
						fmt.Print(" ")
					}
					fmt.Print(renderCard(c))
				}
				fmt.Println()
			}
		}

		fmt.Printf("\n%s %d combinations from %d cards\n",
			color.CyanString("Total:"), len(combos), len(hand))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(handCmd)

	handCmd.Flags().Int64("seed", 1, "Deck shuffle seed")
}

// renderCard colors a card by suit; specials stand out in yellow.
func renderCard(c domain.Card) string {
	name := c.String()
	if c.Rank.IsSpecial() {
		return color.HiYellowString(name)
	}
	switch c.Suit {
	case domain.SuitJade:
		return color.GreenString(name)
	case domain.SuitSword:
		return color.HiBlackString(name)
	case domain.SuitPagoda:
		return color.BlueString(name)
	case domain.SuitStar:
		return color.RedString(name)
	}
	return name
}
