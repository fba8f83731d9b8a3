// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kraklabs/capsule/internal/errors"
)

// bashCompletionTemplate is the bash completion script for capsule.
//
// It provides command and flag completion for bash shells using the
// bash completion framework.
const bashCompletionTemplate = `#!/bin/bash

# Bash completion script for capsule
# Installation:
#   source <(capsule completion bash)
#   Or add to ~/.bashrc:
#   echo 'source <(capsule completion bash)' >> ~/.bashrc

_capsule_completion() {
    local cur prev commands
    commands="init encode decode inspect verify status completion"

    # Current word being completed
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Global flags
    if [ $COMP_CWORD -eq 1 ] && [[ ${cur} == -* ]] ; then
        COMPREPLY=( $(compgen -W "--version --config" -- ${cur}) )
        return 0
    fi

    # First argument: complete commands
    if [ $COMP_CWORD -eq 1 ]; then
        COMPREPLY=( $(compgen -W "${commands}" -- ${cur}) )
        return 0
    fi

    # Command-specific flag completion
    local cmd="${COMP_WORDS[1]}"
    case "${cmd}" in
        init)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--force -y --max-input --block-size --base --alphabet --rounds --key-hex --prf --normalization" -- ${cur}) )
            fi
            ;;
        encode|decode)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--format --json --quiet --no-color" -- ${cur}) )
            elif [ "${prev}" = "--format" ]; then
                COMPREPLY=( $(compgen -W "string digits energy" -- ${cur}) )
            fi
            ;;
        inspect)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--json --quiet --no-color" -- ${cur}) )
            fi
            ;;
        verify)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--count --payload-size --seed --metrics-addr --debug --json --quiet --no-color" -- ${cur}) )
            fi
            ;;
        status)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--json --no-color" -- ${cur}) )
            fi
            ;;
        completion)
            # Complete shell names for completion command
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "bash zsh fish" -- ${cur}) )
            fi
            ;;
    esac
}

complete -F _capsule_completion capsule
`

// zshCompletionTemplate is the zsh completion script for capsule.
//
// It provides command and flag completion for zsh shells using the
// zsh completion system.
const zshCompletionTemplate = `#compdef capsule

# Zsh completion script for capsule
# Installation:
#   1. Ensure compinit is loaded (add to ~/.zshrc if not present):
#      autoload -U compinit; compinit
#   2. Save this script to a directory in your fpath:
#      capsule completion zsh > "${fpath[1]}/_capsule"
#   3. Reload completions:
#      rm -f ~/.zcompdump; compinit

_capsule() {
    local -a commands
    commands=(
        'init:Create .capsule/config.yaml configuration'
        'encode:Encode a payload into a capsule'
        'decode:Decode a capsule back to the original bytes'
        'inspect:Walk a payload through every codec stage'
        'verify:Run randomized round trips against the config'
        'status:Show the active configuration'
        'completion:Generate shell completion script'
    )

    _arguments -C \
        '(- *)--version[Show version and exit]' \
        '--config[Path to config file]:config file:_files -g "*.yaml"' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                init)
                    _arguments \
                        '--force[Overwrite existing configuration]' \
                        '-y[Non-interactive mode (use defaults)]' \
                        '--max-input[Maximum payload size in bytes]:bytes:' \
                        '--block-size[Capsule block size in bytes]:bytes:' \
                        '--base[Output radix]:base:' \
                        '--alphabet[Custom symbol set]:alphabet:' \
                        '--rounds[Feistel round count]:rounds:' \
                        '--key-hex[Permutation key as hex]:key:' \
                        '--prf[Round function]:prf:(hmac-sha256 blake3)' \
                        '--normalization[Energy normalization]:mode:(none unit)'
                    ;;
                encode|decode)
                    _arguments \
                        '--format[Carrier form]:format:(string digits energy)' \
                        '--json[Output as JSON]' \
                        '(-q --quiet)'{-q,--quiet}'[Suppress non-essential output]' \
                        '--no-color[Disable colored output]' \
                        '1:file:_files'
                    ;;
                inspect)
                    _arguments \
                        '--json[Output as JSON]' \
                        '(-q --quiet)'{-q,--quiet}'[Suppress non-essential output]' \
                        '--no-color[Disable colored output]' \
                        '1:file:_files'
                    ;;
                verify)
                    _arguments \
                        '--count[Number of round trips]:count:' \
                        '--payload-size[Fixed payload size in bytes]:bytes:' \
                        '--seed[Random seed]:seed:' \
                        '--metrics-addr[Prometheus metrics address]:address:' \
                        '--debug[Enable debug logging]' \
                        '--json[Output as JSON]' \
                        '(-q --quiet)'{-q,--quiet}'[Suppress non-essential output]' \
                        '--no-color[Disable colored output]'
                    ;;
                status)
                    _arguments \
                        '--json[Output as JSON]' \
                        '--no-color[Disable colored output]'
                    ;;
                completion)
                    _arguments \
                        '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

_capsule
`

// fishCompletionTemplate is the fish completion script for capsule.
//
// It provides command and flag completion for fish shells using the
// fish completion system.
const fishCompletionTemplate = `# Fish completion script for capsule
# Installation:
#   1. Load completions for current session:
#      capsule completion fish | source
#   2. Install permanently:
#      capsule completion fish > ~/.config/fish/completions/capsule.fish

# Commands
complete -c capsule -f -n "__fish_use_subcommand" -a "init" -d "Create .capsule/config.yaml configuration"
complete -c capsule -f -n "__fish_use_subcommand" -a "encode" -d "Encode a payload into a capsule"
complete -c capsule -f -n "__fish_use_subcommand" -a "decode" -d "Decode a capsule back to the original bytes"
complete -c capsule -f -n "__fish_use_subcommand" -a "inspect" -d "Walk a payload through every codec stage"
complete -c capsule -f -n "__fish_use_subcommand" -a "verify" -d "Run randomized round trips against the config"
complete -c capsule -f -n "__fish_use_subcommand" -a "status" -d "Show the active configuration"
complete -c capsule -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

# Global flags
complete -c capsule -l version -d "Show version and exit"
complete -c capsule -l config -d "Path to config file" -r

# init command flags
complete -c capsule -n "__fish_seen_subcommand_from init" -l force -d "Overwrite existing configuration"
complete -c capsule -n "__fish_seen_subcommand_from init" -s y -d "Non-interactive mode (use defaults)"
complete -c capsule -n "__fish_seen_subcommand_from init" -l max-input -d "Maximum payload size in bytes" -r
complete -c capsule -n "__fish_seen_subcommand_from init" -l block-size -d "Capsule block size in bytes" -r
complete -c capsule -n "__fish_seen_subcommand_from init" -l base -d "Output radix" -r
complete -c capsule -n "__fish_seen_subcommand_from init" -l alphabet -d "Custom symbol set" -r
complete -c capsule -n "__fish_seen_subcommand_from init" -l rounds -d "Feistel round count" -r
complete -c capsule -n "__fish_seen_subcommand_from init" -l key-hex -d "Permutation key as hex" -r
complete -c capsule -n "__fish_seen_subcommand_from init" -l prf -d "Round function" -xa "hmac-sha256 blake3"
complete -c capsule -n "__fish_seen_subcommand_from init" -l normalization -d "Energy normalization" -xa "none unit"

# encode/decode command flags
complete -c capsule -n "__fish_seen_subcommand_from encode decode" -l format -d "Carrier form" -xa "string digits energy"
complete -c capsule -n "__fish_seen_subcommand_from encode decode inspect verify status" -l json -d "Output as JSON"
complete -c capsule -n "__fish_seen_subcommand_from encode decode inspect verify" -s q -l quiet -d "Suppress non-essential output"
complete -c capsule -n "__fish_seen_subcommand_from encode decode inspect verify status" -l no-color -d "Disable colored output"

# verify command flags
complete -c capsule -n "__fish_seen_subcommand_from verify" -l count -d "Number of round trips" -r
complete -c capsule -n "__fish_seen_subcommand_from verify" -l payload-size -d "Fixed payload size in bytes" -r
complete -c capsule -n "__fish_seen_subcommand_from verify" -l seed -d "Random seed" -r
complete -c capsule -n "__fish_seen_subcommand_from verify" -l metrics-addr -d "Prometheus metrics address" -r
complete -c capsule -n "__fish_seen_subcommand_from verify" -l debug -d "Enable debug logging"

# completion command arguments
complete -c capsule -n "__fish_seen_subcommand_from completion" -f -a "bash" -d "Generate bash completion script"
complete -c capsule -n "__fish_seen_subcommand_from completion" -f -a "zsh" -d "Generate zsh completion script"
complete -c capsule -n "__fish_seen_subcommand_from completion" -f -a "fish" -d "Generate fish completion script"
`

// runCompletion executes the 'completion' CLI command, generating
// shell-specific completion scripts for bash, zsh, or fish shells.
//
// The completion command outputs a shell-specific script to stdout that can
// be sourced to enable tab completion for capsule commands and flags. Each
// shell has different completion syntax and installation requirements.
//
// Usage:
//
//	capsule completion [bash|zsh|fish]
//
// Examples:
//
//	capsule completion bash                         Output bash completion script
//	source <(capsule completion bash)               Load bash completions in current shell
//	capsule completion zsh > "${fpath[1]}/_capsule" Install zsh completions permanently
//	capsule completion fish | source                Load fish completions in current shell
func runCompletion(args []string, configPath string) {
	fs := flag.NewFlagSet("completion", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: capsule completion <shell>

Description:
  Generate shell completion scripts for bash, zsh, or fish.

  Shell completions allow you to use Tab to autocomplete commands,
  flags, and arguments.

Arguments:
  shell    Shell type: bash, zsh, or fish (required)

Examples:
  # Load bash completions in current shell
  source <(capsule completion bash)

  # Load completions for each session (add to ~/.bashrc)
  echo 'source <(capsule completion bash)' >> ~/.bashrc

  # Install zsh completions permanently
  capsule completion zsh > "${fpath[1]}/_capsule"

  # Install fish completions permanently
  capsule completion fish > ~/.config/fish/completions/capsule.fish

Notes:
  After installing completions, restart your shell or source your rc file.

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	// Validate arguments
	if fs.NArg() != 1 {
		errors.FatalError(errors.NewInputError(
			"Invalid arguments",
			"The completion command requires exactly one argument: the shell name",
			"Run 'capsule completion bash', 'capsule completion zsh', or 'capsule completion fish'",
		), false)
	}

	shell := fs.Arg(0)

	// Generate completion script for the specified shell
	switch shell {
	case "bash":
		fmt.Print(bashCompletionTemplate)
	case "zsh":
		fmt.Print(zshCompletionTemplate)
	case "fish":
		fmt.Print(fishCompletionTemplate)
	default:
		errors.FatalError(errors.NewInputError(
			"Unsupported shell",
			fmt.Sprintf("Shell '%s' is not supported. Valid options: bash, zsh, fish", shell),
			"Run 'capsule completion bash', 'capsule completion zsh', or 'capsule completion fish'",
		), false)
	}
}
