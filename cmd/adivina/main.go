// Command adivina is a learning "20 questions" game about animals.
package main

func main() {
	Execute()
}
